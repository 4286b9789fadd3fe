package geom

import "gonum.org/v1/gonum/spatial/r2"

// Quad is a quadratic Bézier curve whose control point is derived from a
// signed curvature. Change the curvature with [Quad.SetCurvature] so the
// control point stays consistent.
type Quad struct {
	P0, P1    r2.Vec
	Control   r2.Vec
	curvature float64
}

// NewQuad builds the curve from p0 to p1 with curvature c.
func NewQuad(p0, p1 r2.Vec, c float64) Quad {
	q := Quad{P0: p0, P1: p1}
	q.SetCurvature(c)
	return q
}

// Curvature returns the curvature the control point was derived from.
func (q Quad) Curvature() float64 { return q.curvature }

// SetCurvature moves the control point to Pm + c·perp(P1-P0)/2.
func (q *Quad) SetCurvature(c float64) {
	q.curvature = c
	mid := r2.Scale(0.5, r2.Add(q.P0, q.P1))
	q.Control = r2.Add(mid, r2.Scale(c/2, Perp(r2.Sub(q.P1, q.P0))))
}

// Chord returns the squared distance between the endpoints.
func (q Quad) Chord() float64 {
	return r2.Norm2(r2.Sub(q.P1, q.P0))
}

// Degenerate reports whether both endpoints coincide, in which case the
// curvature has no meaning.
func (q Quad) Degenerate() bool {
	return q.Chord() == 0
}

// At evaluates B(t) = (1-t)²P0 + 2(1-t)t·Pc + t²P1.
func (q Quad) At(t float64) r2.Vec {
	u := 1 - t
	p := r2.Scale(u*u, q.P0)
	p = r2.Add(p, r2.Scale(2*u*t, q.Control))
	return r2.Add(p, r2.Scale(t*t, q.P1))
}

// Sample returns n points at t = i/(n-1). The first and last points are the
// endpoints themselves, not evaluations, so they match bit for bit.
// For n < 2 the two endpoints are returned.
func (q Quad) Sample(n int) []r2.Vec {
	if n < 2 {
		return []r2.Vec{q.P0, q.P1}
	}
	pts := make([]r2.Vec, n)
	last := float64(n - 1)
	for i := 1; i < n-1; i++ {
		pts[i] = q.At(float64(i) / last)
	}
	pts[0] = q.P0
	pts[n-1] = q.P1
	return pts
}

// Interior is Sample with the two endpoints dropped.
func (q Quad) Interior(n int) []r2.Vec {
	pts := q.Sample(n)
	return pts[1 : len(pts)-1]
}

// Perp turns v a quarter turn clockwise: (x, y) becomes (y, -x).
func Perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: v.Y, Y: -v.X}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(r2.Scale(1-t, a), r2.Scale(t, b))
}
