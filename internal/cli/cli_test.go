package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
)

const testDiagram = `world: {min_x: 0, min_y: 0, max_x: 100, max_y: 100}
view: {min_x: 0, min_y: 0, max_x: 100, max_y: 100}
nodes:
  - {id: a, x: 10, y: 50, radius: 5}
  - {id: b, x: 90, y: 50, radius: 5}
  - {id: c, x: 50, y: 50, radius: 20}
edges:
  - {from: a, to: b}
  - {from: b, to: c, color: "#aa0000"}
`

// testEnv isolates config and cache for one test and returns the cache dir.
func testEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"NETARC_CACHE", "NETARC_REDIS_ADDR", "NETARC_ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Setenv("NETARC_CACHE_DIR", dir)
	return dir
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoute(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)

	out, err := execute(t, "route", input)
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	if !strings.Contains(out, "Routed") || !strings.Contains(out, "2 edges") {
		t.Errorf("output = %q, want routed summary", out)
	}
	if !strings.Contains(out, "fresh") {
		t.Errorf("first run output = %q, want fresh", out)
	}

	l, err := graph.ReadLayoutFile(strings.TrimSuffix(input, ".yaml") + ".layout.json")
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(l.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(l.Edges))
	}
	if l.Edges[0].Curvature <= 0.6 {
		t.Errorf("a->b curvature = %v, want > 0.6", l.Edges[0].Curvature)
	}
	if l.Edges[1].Style.Color != "#aa0000" {
		t.Errorf("b->c color = %q, want #aa0000", l.Edges[1].Style.Color)
	}

	out, err = execute(t, "route", input)
	if err != nil {
		t.Fatalf("second route error: %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run output = %q, want cached", out)
	}
}

func TestRoute_Stdout(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)

	out, err := execute(t, "route", input, "-o", "-", "--no-cache", "--samples", "30")
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	for _, e := range l.Edges {
		if len(e.Points) != 30 {
			t.Errorf("edge %s->%s has %d points, want 30", e.From, e.To, len(e.Points))
		}
	}
}

func TestRoute_Errors(t *testing.T) {
	testEnv(t)

	missing := writeFile(t, "missing.yaml", testDiagram+"  - {from: a, to: zz}\n")
	_, err := execute(t, "route", missing, "--no-cache")
	if got := errors.GetCode(err); got != errors.ErrCodeConfiguration {
		t.Errorf("unknown node: code = %q, want %q (err %v)", got, errors.ErrCodeConfiguration, err)
	}

	ignored := writeFile(t, "ignored.yaml", testDiagram+"  - {from: a, to: zz, ignore_missing: true}\n")
	out, err := execute(t, "route", ignored, "--no-cache")
	if err != nil {
		t.Fatalf("ignore_missing: error = %v", err)
	}
	if !strings.Contains(out, "1 skipped") || !strings.Contains(out, "skipped a → zz") {
		t.Errorf("ignore_missing output = %q, want skipped edge", out)
	}

	if _, err := execute(t, "route", filepath.Join(t.TempDir(), "nope.json")); errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := execute(t, "route"); err == nil {
		t.Error("route without args: error = nil")
	}
}

func TestRender(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.json", `{
  "nodes": [
    {"id": "a", "x": 10, "y": 50, "radius": 5},
    {"id": "b", "x": 90, "y": 50, "radius": 5},
    {"id": "c", "x": 50, "y": 90, "radius": 5, "label": "hub"}
  ],
  "edges": [{"from": "a", "to": "b"}, {"from": "c", "to": "a"}]
}`)
	base := filepath.Join(t.TempDir(), "out", "net")

	out, err := execute(t, "render", input, "-f", "svg, png,dot,json", "-o", base+".svg", "--labels")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	checks := map[string]string{
		base + ".svg":         "<svg",
		base + ".png":         "\x89PNG",
		base + ".dot":         "digraph",
		base + ".layout.json": `"edges"`,
	}
	for path, want := range checks {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing output %s: %v", path, err)
			continue
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s does not contain %q", filepath.Base(path), want)
		}
		if !strings.Contains(out, path) {
			t.Errorf("output does not list %s", path)
		}
	}

	// The diagram input is untouched.
	if data, _ := os.ReadFile(input); !strings.Contains(string(data), `"nodes"`) {
		t.Error("render overwrote the input diagram")
	}
}

func TestRender_SingleOutput(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)
	output := filepath.Join(t.TempDir(), "drawing.image")

	if _, err := execute(t, "render", input, "-o", output); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("default format output is not SVG")
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)

	_, err := execute(t, "render", input, "-f", "svg,gif")
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidFormat)
	}
}

func TestPlace(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", `nodes:
  - {id: a, radius: 5}
  - {id: b, radius: 5}
  - {id: c, radius: 5}
edges:
  - {from: a, to: b}
  - {from: b, to: c}
`)

	out, err := execute(t, "place", input)
	if err != nil {
		t.Fatalf("place error: %v", err)
	}
	if !strings.Contains(out, "Placed 3 of 3 nodes") {
		t.Errorf("output = %q, want placed summary", out)
	}

	d, err := graph.ReadDiagramFile(strings.TrimSuffix(input, ".yaml") + ".placed.yaml")
	if err != nil {
		t.Fatalf("ReadDiagramFile() error: %v", err)
	}
	if !d.Placed() {
		t.Error("written diagram is not fully placed")
	}

	out, err = execute(t, "place", input)
	if err != nil {
		t.Fatalf("second place error: %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run output = %q, want cached", out)
	}
}

func TestPlace_AlreadyPlaced(t *testing.T) {
	testEnv(t)
	input := writeFile(t, "net.yaml", testDiagram)

	out, err := execute(t, "place", input, "-o", "-")
	if err != nil {
		t.Fatalf("place error: %v", err)
	}
	d, err := graph.UnmarshalDiagram([]byte(out))
	if err != nil {
		t.Fatalf("UnmarshalDiagram() error: %v", err)
	}
	if len(d.Nodes) != 3 || *d.Nodes[0].X != 10 {
		t.Errorf("stdout diagram = %+v, want the input unchanged", d.Nodes)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"SVG, png,,dot ", []string{"svg", "png", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		multi                 bool
		want                  string
	}{
		{"net.yaml", "", "svg", false, "net.svg"},
		{"net.json", "", "json", false, "net.layout.json"},
		{"net.yaml", "out.image", "svg", false, "out.image"},
		{"net.yaml", "out/x.svg", "png", true, "out/x.png"},
		{"dir/net.toml", "", "dot", true, "dir/net.dot"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q",
				tt.input, tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "netarc") {
		t.Error("bash completion does not mention netarc")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: error = nil")
	}
}
