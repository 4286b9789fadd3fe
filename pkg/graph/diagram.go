package graph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/network"
)

// =============================================================================
// Validation
// =============================================================================

// Validate reports structural problems as an INVALID_DIAGRAM error.
// Unplaced nodes are allowed; [Diagram.Registry] rejects them later.
func (d *Diagram) Validate() error {
	var v errors.ValidationError

	checkBox := func(name string, b Box) {
		if b == (Box{}) {
			return
		}
		if !finite(b.MinX) || !finite(b.MinY) || !finite(b.MaxX) || !finite(b.MaxY) {
			v.Add("%s box has non-finite bounds", name)
		} else if b.Empty() {
			v.Add("%s box must have positive width and height", name)
		}
	}
	checkBox("world", d.World)
	checkBox("view", d.View)

	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			v.Add("node %d: %s", i, errors.UserMessage(err))
			continue
		}
		if seen[n.ID] {
			v.Add("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true

		switch n.Shape {
		case "", ShapeCircle, ShapePoint:
		default:
			v.Add("node %q: unknown shape %q", n.ID, n.Shape)
		}
		if n.Radius < 0 || !finite(n.Radius) {
			v.Add("node %q: radius must be a non-negative number", n.ID)
		}
		if (n.X == nil) != (n.Y == nil) {
			v.Add("node %q: x and y must be set together", n.ID)
		} else if n.Placed() && (!finite(*n.X) || !finite(*n.Y)) {
			v.Add("node %q: non-finite position", n.ID)
		}
	}

	checkOptions := func(name string, o EdgeOptions) {
		if o.Samples != nil && *o.Samples < 0 {
			v.Add("%s: samples must not be negative", name)
		}
		if o.Curvature != nil && !finite(*o.Curvature) {
			v.Add("%s: curvature must be finite", name)
		}
		if o.ArrowPosition != nil && !finite(*o.ArrowPosition) {
			v.Add("%s: arrow_position must be finite", name)
		}
	}
	checkOptions("defaults", d.Defaults.EdgeOptions)
	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			v.Add("edge %d: from and to are required", i)
		}
		checkOptions(fmt.Sprintf("edge %d (%s->%s)", i, e.From, e.To), e.EdgeOptions)
	}

	return v.Err(errors.ErrCodeInvalidDiagram, "invalid diagram")
}

// =============================================================================
// Routing Inputs
// =============================================================================

// Placed reports whether every node has a position.
func (d *Diagram) Placed() bool {
	for i := range d.Nodes {
		if !d.Nodes[i].Placed() {
			return false
		}
	}
	return true
}

// Frame returns the world and view boxes used for routing and rendering,
// filling in defaults for boxes the diagram leaves empty.
func (d *Diagram) Frame() network.Frame {
	world := d.World
	if world.Empty() {
		world = d.bounds()
	}
	view := d.View
	if view.Empty() {
		view = fitView(world)
	}
	return network.Frame{World: world.R2(), View: view.R2()}
}

// bounds is the box around all placed nodes with a 10% margin on each side.
// Degenerate extents are widened to one unit.
func (d *Diagram) bounds() Box {
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for i := range d.Nodes {
		if !d.Nodes[i].Placed() {
			continue
		}
		c := d.Nodes[i].Center()
		b.MinX, b.MaxX = math.Min(b.MinX, c.X), math.Max(b.MaxX, c.X)
		b.MinY, b.MaxY = math.Min(b.MinY, c.Y), math.Max(b.MaxY, c.Y)
	}
	if math.IsInf(b.MinX, 1) {
		return Box{MaxX: 1, MaxY: 1}
	}
	pad := func(lo, hi float64) (float64, float64) {
		m := (hi - lo) * 0.1
		if m == 0 {
			m = 0.5
		}
		return lo - m, hi + m
	}
	b.MinX, b.MaxX = pad(b.MinX, b.MaxX)
	b.MinY, b.MaxY = pad(b.MinY, b.MaxY)
	return b
}

// fitView scales world so that its longer side is DefaultViewSize.
func fitView(world Box) Box {
	w, h := world.Width(), world.Height()
	if !(w > 0 && h > 0) {
		return Box{MaxX: DefaultViewSize, MaxY: DefaultViewSize}
	}
	s := DefaultViewSize / math.Max(w, h)
	return Box{MaxX: w * s, MaxY: h * s}
}

// Registry registers every node for routing. All nodes must be placed.
func (d *Diagram) Registry() (*network.Registry, error) {
	reg := network.NewRegistry(d.Frame())
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if !n.Placed() {
			return nil, errors.New(errors.ErrCodeInvalidDiagram, "node %q has no position; place the diagram first", n.ID)
		}
		var sym network.Symbol = network.Circle{Radius: n.Radius}
		if n.IsPoint() {
			sym = network.Point{}
		}
		if err := reg.Add(network.Node{ID: n.ID, Center: n.Center(), Symbol: sym}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "register node %q", n.ID)
		}
	}
	return reg, nil
}

// EdgeSpecs resolves every edge against the diagram defaults. The spec at
// index i belongs to d.Edges[i].
func (d *Diagram) EdgeSpecs() []network.EdgeSpec {
	specs := make([]network.EdgeSpec, len(d.Edges))
	for i, e := range d.Edges {
		s := network.NewEdgeSpec(e.From, e.To)
		d.Defaults.EdgeOptions.apply(&s)
		e.EdgeOptions.apply(&s)
		specs[i] = s
	}
	return specs
}

func (o EdgeOptions) apply(s *network.EdgeSpec) {
	if o.Curvature != nil {
		s.Curvature = *o.Curvature
	}
	if o.Samples != nil {
		s.Samples = *o.Samples
	}
	if o.AvoidCrossingNodes != nil {
		s.AvoidCrossingNodes = *o.AvoidCrossingNodes
	}
	if o.PutArrows != nil {
		s.PutArrows = *o.PutArrows
	}
	if o.ArrowPosition != nil {
		s.ArrowPosition = *o.ArrowPosition
	}
	if o.IgnoreMissing != nil {
		s.IgnoreMissing = *o.IgnoreMissing
	}
}

// Positions returns the placed node centres by id.
func (d *Diagram) Positions() map[string]r2.Vec {
	out := make(map[string]r2.Vec, len(d.Nodes))
	for i := range d.Nodes {
		if d.Nodes[i].Placed() {
			out[d.Nodes[i].ID] = d.Nodes[i].Center()
		}
	}
	return out
}
