package route

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/geom"
	"github.com/matzehuels/netarc/pkg/network"
)

// =============================================================================
// States
// =============================================================================

// State is a step of the per-edge routing state machine.
type State int

const (
	StateInit State = iota
	StateCrossingCheck
	StateSelfCoverCheck
	StateSampled
	StateArrowPlaced
	StateEmitted
)

var stateNames = [...]string{
	StateInit:           "init",
	StateCrossingCheck:  "crossing_check",
	StateSelfCoverCheck: "self_cover_check",
	StateSampled:        "sampled",
	StateArrowPlaced:    "arrow_placed",
	StateEmitted:        "emitted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// =============================================================================
// Result
// =============================================================================

// Polyline is a sampled edge path. The first and last points are the exact
// edge endpoints.
type Polyline []r2.Vec

// DrawPoints returns the segment-pair form p0,p1,p1,p2,...,pn-1 where each
// consecutive pair of returned points is one line segment.
func (p Polyline) DrawPoints() []r2.Vec {
	if len(p) < 2 {
		return append([]r2.Vec(nil), p...)
	}
	out := make([]r2.Vec, 0, 2*(len(p)-1))
	for i := 1; i < len(p); i++ {
		out = append(out, p[i-1], p[i])
	}
	return out
}

// Result is the outcome of routing one edge.
type Result struct {
	Spec network.EdgeSpec

	// State is the last state reached: StateEmitted for routed edges,
	// StateInit for skipped ones.
	State State

	// Curvature is the curvature after both avoidance passes.
	Curvature float64

	Polyline Polyline
	Domain   Domain

	// Arrow is nil when arrows are off or the edge is degenerate.
	Arrow *Arrow

	CrossingIterations  int
	SelfCoverIterations int
	CrossingExhausted   bool
	SelfCoverExhausted  bool

	// Degenerate is set when both endpoints share a centre.
	Degenerate bool

	// Skipped is set when an endpoint is missing and IgnoreMissing is on.
	Skipped    bool
	SkipReason string
}

// Iterations returns the total number of avoidance adjustments.
func (r Result) Iterations() int {
	return r.CrossingIterations + r.SelfCoverIterations
}

// Exhausted reports whether either avoidance pass gave up.
func (r Result) Exhausted() bool {
	return r.CrossingExhausted || r.SelfCoverExhausted
}

// =============================================================================
// Edge router
// =============================================================================

// edgeRun holds the transient state of one edge while it moves through the
// state machine. The curve is private to the run.
type edgeRun struct {
	reg      *network.Registry
	spec     network.EdgeSpec
	src, dst network.Resolved
	curve    geom.Quad
	res      Result
}

// Route routes a single edge. It only reads from reg, so calls for different
// edges may run concurrently.
//
// An unknown endpoint yields a CONFIGURATION_ERROR, unless the spec sets
// IgnoreMissing, in which case the result is marked Skipped and no error is
// returned.
func Route(reg *network.Registry, spec network.EdgeSpec) (Result, error) {
	run := &edgeRun{reg: reg, spec: spec.Normalized()}
	run.res.Spec = run.spec

	state := StateInit
	for state != StateEmitted {
		next, err := run.step(state)
		if err != nil {
			return Result{}, err
		}
		if run.res.Skipped {
			return run.res, nil
		}
		state = next
	}
	run.res.State = state
	return run.res, nil
}

func (r *edgeRun) step(s State) (State, error) {
	switch s {
	case StateInit:
		return r.init()
	case StateCrossingCheck:
		if r.spec.AvoidCrossingNodes && r.src.Circular && r.dst.Circular && !r.res.Degenerate {
			p := avoidCrossings(&r.curve, r.obstacles())
			r.res.CrossingIterations = p.iterations
			r.res.CrossingExhausted = p.exhausted
		}
		return StateSelfCoverCheck, nil
	case StateSelfCoverCheck:
		if r.spec.AvoidCrossingNodes && !r.res.Degenerate {
			p := avoidSelfCover(&r.curve, r.src.Disc(), r.dst.Disc())
			r.res.SelfCoverIterations = p.iterations
			r.res.SelfCoverExhausted = p.exhausted
		}
		return StateSampled, nil
	case StateSampled:
		r.res.Curvature = r.curve.Curvature()
		r.res.Polyline = r.curve.Sample(r.spec.Samples)
		return StateArrowPlaced, nil
	case StateArrowPlaced:
		if r.spec.PutArrows && !r.res.Degenerate {
			pts := r.res.Polyline
			r.res.Domain = ScanVisible(pts, r.src.Disc(), r.dst.Disc())
			if a, ok := PlaceArrow(pts, r.res.Domain, r.spec.ArrowPosition); ok {
				r.res.Arrow = &a
			}
		}
		return StateEmitted, nil
	default:
		return s, errors.New(errors.ErrCodeInternal, "route: invalid state %v", s)
	}
}

func (r *edgeRun) init() (State, error) {
	var ok bool
	missing := r.spec.From
	if r.src, ok = r.reg.Resolve(r.spec.From); ok {
		missing = r.spec.To
		r.dst, ok = r.reg.Resolve(r.spec.To)
	}
	if !ok {
		if r.spec.IgnoreMissing {
			r.res.Skipped = true
			r.res.SkipReason = "unknown node " + missing
			return StateInit, nil
		}
		return StateInit, errors.New(errors.ErrCodeConfiguration,
			"edge %s->%s: unknown node %q", r.spec.From, r.spec.To, missing)
	}

	r.curve = geom.NewQuad(r.src.Center, r.dst.Center, r.spec.Curvature)
	if r.curve.Degenerate() {
		r.curve.SetCurvature(0)
		r.res.Degenerate = true
	}
	return StateCrossingCheck, nil
}

func (r *edgeRun) obstacles() []geom.Circle {
	nodes := r.reg.Obstacles(r.src.ID, r.dst.ID)
	out := make([]geom.Circle, len(nodes))
	for i, n := range nodes {
		out[i] = n.Disc()
	}
	return out
}
