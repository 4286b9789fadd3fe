package network

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Registry.Add] when the id is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Registry.Add] when the id is taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidGeometry is returned by [Registry.Add] for non-finite
	// coordinates or a negative radius.
	ErrInvalidGeometry = errors.New("invalid node geometry")
)

// Registry stores the nodes of one diagram. Nodes are added once and never
// changed; the router only reads from it.
//
// The zero value is not usable - use [NewRegistry].
type Registry struct {
	frame Frame
	ratio float64
	nodes map[string]Resolved
	order []string
}

// NewRegistry creates an empty registry for the given frame. A zero frame
// leaves radii unscaled.
func NewRegistry(f Frame) *Registry {
	return &Registry{
		frame: f,
		ratio: f.Ratio(),
		nodes: make(map[string]Resolved),
	}
}

// Frame returns the frame the registry scales radii with.
func (r *Registry) Frame() Frame { return r.frame }

// Ratio returns the view-to-world length factor.
func (r *Registry) Ratio() float64 { return r.ratio }

// Add registers a node. A nil symbol is treated as [Point].
func (r *Registry) Add(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := r.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if !finite(n.Center.X) || !finite(n.Center.Y) {
		return fmt.Errorf("%w: %s: center %v", ErrInvalidGeometry, n.ID, n.Center)
	}

	res := Resolved{ID: n.ID, Center: n.Center}
	switch s := n.Symbol.(type) {
	case Circle:
		if s.Radius < 0 || !finite(s.Radius) {
			return fmt.Errorf("%w: %s: radius %v", ErrInvalidGeometry, n.ID, s.Radius)
		}
		res.Radius = s.Radius * r.ratio
		res.Circular = true
	case Point, nil:
	default:
		return fmt.Errorf("%w: %s: unknown symbol %T", ErrInvalidGeometry, n.ID, s)
	}

	r.nodes[n.ID] = res
	r.order = append(r.order, n.ID)
	return nil
}

// Resolve looks up a node by id.
func (r *Registry) Resolve(id string) (Resolved, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Nodes returns all nodes in registration order.
func (r *Registry) Nodes() []Resolved {
	out := make([]Resolved, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.nodes[id])
	}
	return out
}

// Obstacles returns the circular nodes other than the listed ids, in
// registration order.
func (r *Registry) Obstacles(except ...string) []Resolved {
	out := make([]Resolved, 0, len(r.order))
	for _, id := range r.order {
		n := r.nodes[id]
		if !n.Circular || slices.Contains(except, id) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int { return len(r.order) }

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
