package svg

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/render"
)

// unit is the number of SVG user units per view unit. svgo takes integer
// coordinates, so drawing happens on a finer grid and the viewBox scales it
// back down.
const unit = 10

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	background string
	labels     bool
	nodeFill   string
	nodeStroke string
}

// WithBackground fills the canvas with a colour. The default is
// transparent.
func WithBackground(color string) Option {
	return func(r *renderer) { r.background = color }
}

// WithLabels draws node labels.
func WithLabels() Option {
	return func(r *renderer) { r.labels = true }
}

// WithNodeColors sets the default node fill and stroke.
func WithNodeColors(fill, stroke string) Option {
	return func(r *renderer) {
		r.nodeFill = fill
		r.nodeStroke = stroke
	}
}

// Render draws a routed layout as an SVG document sized to its view box.
// Edges are drawn below nodes, each as a path of segment pairs with a
// filled arrowhead.
func Render(l graph.Layout, opts ...Option) []byte {
	r := renderer{nodeFill: "#ffffff", nodeStroke: "#222222"}
	for _, opt := range opts {
		opt(&r)
	}

	v := render.NewView(l)
	w, h := int(math.Ceil(v.Width)), int(math.Ceil(v.Height))

	var buf bytes.Buffer
	canvas := svgo.New(&buf)
	canvas.Startview(w, h, 0, 0, w*unit, h*unit)
	if r.background != "" {
		canvas.Rect(0, 0, w*unit, h*unit, "fill:"+r.background)
	}

	canvas.Gid("edges")
	for _, e := range l.Edges {
		r.edge(canvas, v, e)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range l.Nodes {
		r.node(canvas, v, n)
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

func (r renderer) edge(canvas *svgo.SVG, v render.View, e graph.LayoutEdge) {
	segs := v.Segments(e)
	if len(segs) < 2 {
		return
	}
	var d strings.Builder
	for i := 0; i+1 < len(segs); i += 2 {
		a, b := scaled(segs[i]), scaled(segs[i+1])
		fmt.Fprintf(&d, "M%d %d L%d %d ", a[0], a[1], b[0], b[1])
	}
	canvas.Path(strings.TrimSpace(d.String()), fmt.Sprintf(
		"fill:none;stroke:%s;stroke-width:%d;stroke-linecap:round", e.Style.Color, scaledLen(e.Style.Width)))

	if e.Arrow == nil {
		return
	}
	tri := v.ArrowHead(*e.Arrow, e.Style.Width)
	xs, ys := make([]int, 3), make([]int, 3)
	for i, p := range tri {
		s := scaled(p)
		xs[i], ys[i] = s[0], s[1]
	}
	canvas.Polygon(xs, ys, "fill:"+e.Style.Color)
}

func (r renderer) node(canvas *svgo.SVG, v render.View, n graph.LayoutNode) {
	c := scaled(v.Point(n.Center()))
	if n.Shape == graph.ShapePoint {
		canvas.Circle(c[0], c[1], 2*unit, "fill:"+r.nodeStroke)
		return
	}
	fill := r.nodeFill
	if n.Fill != "" {
		fill = n.Fill
	}
	canvas.Circle(c[0], c[1], scaledLen(v.Length(n.Radius)),
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", fill, r.nodeStroke, unit))

	if r.labels {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		canvas.Text(c[0], c[1], label, fmt.Sprintf(
			"text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%dpx;fill:#222", 10*unit))
	}
}

func scaled(p r2.Vec) [2]int {
	return [2]int{int(math.Round(p.X * unit)), int(math.Round(p.Y * unit))}
}

func scaledLen(d float64) int {
	return int(math.Round(d * unit))
}
