package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/network"
	"github.com/matzehuels/netarc/pkg/route"
)

// View maps a layout into its view box for drawing.
type View struct {
	frame  network.Frame
	Width  float64
	Height float64
}

// NewView returns the drawing transform of l.
func NewView(l graph.Layout) View {
	f := l.Frame()
	return View{frame: f, Width: l.View.Width(), Height: l.View.Height()}
}

// Point maps a world point to view coordinates, y down.
func (v View) Point(p r2.Vec) r2.Vec {
	return v.frame.ToView(p)
}

// Length maps a world length to view units.
func (v View) Length(d float64) float64 {
	return v.frame.ScaleToView(d)
}

// Segments returns the edge polyline in view coordinates as segment pairs.
func (v View) Segments(e graph.LayoutEdge) []r2.Vec {
	pts := route.Polyline(e.Vecs()).DrawPoints()
	for i, p := range pts {
		pts[i] = v.Point(p)
	}
	return pts
}

// ArrowHead returns the triangle of an arrowhead drawn on a, in view
// coordinates. The tip sits on the arrow end; size grows with the stroke
// width.
func (v View) ArrowHead(a graph.LayoutArrow, strokeWidth float64) [3]r2.Vec {
	tail, tip := v.Point(a.From.Vec()), v.Point(a.To.Vec())
	dir := r2.Sub(tip, tail)
	n := r2.Norm(dir)
	if n == 0 {
		return [3]r2.Vec{tip, tip, tip}
	}
	dir = r2.Scale(1/n, dir)
	length := 6 + 3*strokeWidth
	half := length * math.Tan(math.Pi/7)
	base := r2.Sub(tip, r2.Scale(length, dir))
	side := r2.Vec{X: -dir.Y, Y: dir.X}
	return [3]r2.Vec{
		tip,
		r2.Add(base, r2.Scale(half, side)),
		r2.Sub(base, r2.Scale(half, side)),
	}
}
