package render

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
)

func testLayout() graph.Layout {
	return graph.Layout{
		World: graph.Box{MaxX: 10, MaxY: 5},
		View:  graph.Box{MaxX: 200, MaxY: 100},
		Edges: []graph.LayoutEdge{{
			Points: []graph.Point{{0, 0}, {5, 2.5}, {10, 5}},
			Arrow:  &graph.LayoutArrow{From: graph.Point{4, 2.5}, To: graph.Point{5, 2.5}},
			Style:  graph.Style{Color: "#000000", Width: 2},
		}},
	}
}

func TestView_Point(t *testing.T) {
	v := NewView(testLayout())
	tests := []struct {
		world, view r2.Vec
	}{
		{r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0, Y: 100}},
		{r2.Vec{X: 10, Y: 5}, r2.Vec{X: 200, Y: 0}},
		{r2.Vec{X: 5, Y: 2.5}, r2.Vec{X: 100, Y: 50}},
	}
	for _, tt := range tests {
		if got := v.Point(tt.world); got != tt.view {
			t.Errorf("Point(%v) = %v, want %v", tt.world, got, tt.view)
		}
	}
	if got := v.Length(1); got != 20 {
		t.Errorf("Length(1) = %v, want 20", got)
	}
}

func TestView_Segments(t *testing.T) {
	l := testLayout()
	segs := NewView(l).Segments(l.Edges[0])
	if len(segs) != 4 {
		t.Fatalf("len(Segments()) = %d, want 4", len(segs))
	}
	if segs[1] != segs[2] {
		t.Errorf("segment pairs do not share the middle point: %v", segs)
	}
	if segs[0] != (r2.Vec{X: 0, Y: 100}) || segs[3] != (r2.Vec{X: 200, Y: 0}) {
		t.Errorf("Segments() endpoints = %v, %v", segs[0], segs[3])
	}
}

func TestView_ArrowHead(t *testing.T) {
	l := testLayout()
	v := NewView(l)
	tri := v.ArrowHead(*l.Edges[0].Arrow, 2)

	tip := r2.Vec{X: 100, Y: 50}
	if tri[0] != tip {
		t.Errorf("tip = %v, want %v", tri[0], tip)
	}
	// Arrow points in +x; the base lies behind the tip, symmetric in y.
	for _, p := range tri[1:] {
		if p.X >= tip.X {
			t.Errorf("base point %v not behind tip", p)
		}
	}
	if math.Abs((tri[1].Y-50)+(tri[2].Y-50)) > 1e-9 {
		t.Errorf("base not symmetric: %v %v", tri[1], tri[2])
	}

	flat := v.ArrowHead(graph.LayoutArrow{From: graph.Point{1, 1}, To: graph.Point{1, 1}}, 1)
	if flat[0] != flat[1] || flat[1] != flat[2] {
		t.Errorf("zero-length arrow = %v, want collapsed triangle", flat)
	}
}

func TestConvert_MissingTool(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "netarc-no-such-converter"
	t.Cleanup(func() { rsvgBinary = old })

	if HasConverter() {
		t.Fatal("HasConverter() = true for missing binary")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
	_, err = ToPNG(context.Background(), []byte("<svg/>"), 0)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}
