package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netarc/pkg/graph"
)

// pointsPerInch converts view units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT export.
type Options struct {
	// Labels draws node labels inside the node symbols.
	Labels bool
}

// ToDOT converts a routed layout to Graphviz DOT. Node positions are pinned
// to the layout so that neato reproduces the node geometry; Graphviz routes
// its own edges, which makes the output useful for comparison.
func ToDOT(l graph.Layout, opts Options) string {
	f := l.Frame()
	viewH := l.View.Height()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		v := f.ToView(n.Center())
		attrs := []string{fmt.Sprintf("pos=\"%.4f,%.4f!\"", v.X/pointsPerInch, (viewH-v.Y)/pointsPerInch)}
		if n.Shape == graph.ShapePoint {
			attrs = append(attrs, "shape=point")
		} else {
			d := 2 * f.ScaleToView(n.Radius) / pointsPerInch
			attrs = append(attrs, fmt.Sprintf("width=%.4f", d))
		}
		label := ""
		if opts.Labels {
			label = n.Label
			if label == "" {
				label = n.ID
			}
		}
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
		if n.Fill != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Fill))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := []string{
			fmt.Sprintf("color=%q", e.Style.Color),
			fmt.Sprintf("penwidth=%.2f", e.Style.Width),
		}
		if e.Arrow == nil {
			attrs = append(attrs, "arrowhead=none")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out and renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := run(ctx, dot, graphviz.NEATO, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// run lays out dot with engine and renders it in format.
func run(ctx context.Context, dot string, engine graphviz.Layout, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose size
// matches its viewBox, dropping the pt units Graphviz emits.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
