package nodelink

import (
	"context"
	"testing"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
)

func TestSplitPlain(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"node a 1.5 2 0.5 0.5", []string{"node", "a", "1.5", "2", "0.5", "0.5"}},
		{`node "my node" 1 2`, []string{"node", "my node", "1", "2"}},
		{`node "say \"hi\"" 3 4`, []string{"node", `say "hi"`, "3", "4"}},
		{`node "" 0 0`, []string{"node", "", "0", "0"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := splitPlain(tt.line)
		if len(got) != len(tt.want) {
			t.Errorf("splitPlain(%q) = %q, want %q", tt.line, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitPlain(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParsePlain(t *testing.T) {
	out := []byte(`graph 1 3.5 2
node a 0.5 1.5 0.33 0.33 "" solid circle black lightgrey
node "b c" 3 0.5 0.33 0.33 "" solid circle black lightgrey
edge a "b c" 4 0.7 1.3 1.5 1 2 0.8 2.8 0.6 solid black
stop
`)
	pos, err := parsePlain(out)
	if err != nil {
		t.Fatalf("parsePlain() error: %v", err)
	}
	if len(pos) != 2 {
		t.Fatalf("parsePlain() returned %d nodes, want 2", len(pos))
	}
	if p := pos["a"]; p.X != 0.5 || p.Y != 1.5 {
		t.Errorf("a = %v, want (0.5, 1.5)", p)
	}
	if p := pos["b c"]; p.X != 3 || p.Y != 0.5 {
		t.Errorf("b c = %v, want (3, 0.5)", p)
	}

	if _, err := parsePlain([]byte("node a x 1\n")); err == nil {
		t.Error("parsePlain() error = nil for bad coordinate")
	}
	if _, err := parsePlain([]byte("node a\n")); err == nil {
		t.Error("parsePlain() error = nil for short line")
	}
}

func diagram(placed map[string][2]float64, ids ...string) *graph.Diagram {
	d := &graph.Diagram{}
	for _, id := range ids {
		n := graph.Node{ID: id, Radius: 10}
		if p, ok := placed[id]; ok {
			x, y := p[0], p[1]
			n.X, n.Y = &x, &y
		}
		d.Nodes = append(d.Nodes, n)
	}
	for i := 1; i < len(ids); i++ {
		d.Edges = append(d.Edges, graph.Edge{From: ids[i-1], To: ids[i]})
	}
	return d
}

func TestPlace(t *testing.T) {
	for _, engine := range []string{EngineNeato, EngineDot} {
		t.Run(engine, func(t *testing.T) {
			d := diagram(nil, "a", "b", "c")
			n, err := Place(context.Background(), d, engine)
			if err != nil {
				t.Fatalf("Place() error: %v", err)
			}
			if n != 3 {
				t.Errorf("Place() placed %d nodes, want 3", n)
			}
			if !d.Placed() {
				t.Fatal("diagram not fully placed")
			}
			seen := map[[2]float64]bool{}
			for _, node := range d.Nodes {
				c := node.Center()
				key := [2]float64{c.X, c.Y}
				if seen[key] {
					t.Errorf("two nodes placed at %v", c)
				}
				seen[key] = true
			}
			if _, err := d.Registry(); err != nil {
				t.Errorf("Registry() after Place() error: %v", err)
			}
		})
	}
}

func TestPlace_KeepsPinnedNodes(t *testing.T) {
	d := diagram(map[string][2]float64{"a": {5, 5}}, "a", "b")
	n, err := Place(context.Background(), d, "")
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Place() placed %d nodes, want 1", n)
	}
	if c := d.Nodes[0].Center(); c.X != 5 || c.Y != 5 {
		t.Errorf("pinned node moved to %v", c)
	}
	if !d.Nodes[1].Placed() {
		t.Error("node b not placed")
	}
}

func TestPlace_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := Place(ctx, diagram(nil, "a"), "circo"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown engine error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	mixed := diagram(map[string][2]float64{"a": {0, 0}}, "a", "b")
	if _, err := Place(ctx, mixed, EngineDot); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("dot with pinned nodes error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	done := diagram(map[string][2]float64{"a": {0, 0}}, "a")
	if n, err := Place(ctx, done, EngineDot); err != nil || n != 0 {
		t.Errorf("Place() on placed diagram = %d, %v, want 0, nil", n, err)
	}
}
