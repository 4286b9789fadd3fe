package geom

import "gonum.org/v1/gonum/spatial/r2"

// Circle is a disc in world coordinates.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// Under reports whether p lies inside c inflated by buffer, a fraction of
// the radius. A buffer of 0.08 grows the disc by 8%.
func Under(p r2.Vec, c Circle, buffer float64) bool {
	r := c.Radius * (1 + buffer)
	return r2.Norm2(r2.Sub(p, c.Center)) <= r*r
}

// CountUnder returns how many points lie under any of the circles.
// A point covered by several circles is counted once.
func CountUnder(pts []r2.Vec, buffer float64, circles ...Circle) int {
	n := 0
	for _, p := range pts {
		for _, c := range circles {
			if Under(p, c, buffer) {
				n++
				break
			}
		}
	}
	return n
}
