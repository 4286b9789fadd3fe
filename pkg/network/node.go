package network

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/geom"
)

// Symbol is the drawn marker of a node. It is either [Circle] or [Point].
type Symbol interface {
	isSymbol()
}

// Circle is a circular marker with a radius in view units.
type Circle struct {
	Radius float64
}

// Point is a marker without circular geometry. Edges touching a point node
// skip crossing avoidance, and the node never acts as an obstacle.
type Point struct{}

func (Circle) isSymbol() {}
func (Point) isSymbol()  {}

// Node is a registered diagram vertex.
type Node struct {
	ID     string
	Center r2.Vec // world units
	Symbol Symbol
}

// Resolved is a node with its radius converted to world units.
type Resolved struct {
	ID       string
	Center   r2.Vec
	Radius   float64 // world units; 0 for point symbols
	Circular bool
}

// Disc returns the node footprint used by containment tests. Point nodes
// yield a zero-radius disc, which only covers the centre.
func (r Resolved) Disc() geom.Circle {
	return geom.Circle{Center: r.Center, Radius: r.Radius}
}
