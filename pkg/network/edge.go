package network

import "math"

// Default edge options.
const (
	DefaultCurvature     = 0.6
	DefaultSamples       = 120
	DefaultArrowPosition = 0.75
)

// EdgeSpec describes one directed edge to route.
type EdgeSpec struct {
	From string
	To   string

	// Curvature is the requested bow; positive bows right of From→To.
	Curvature float64

	// Samples is the number of points on the routed polyline.
	// Values below 2 fall back to DefaultSamples.
	Samples int

	// AvoidCrossingNodes enables both avoidance passes.
	AvoidCrossingNodes bool

	PutArrows bool

	// ArrowPosition places the arrow along the visible run, in [0,1].
	ArrowPosition float64

	// IgnoreMissing drops the edge with a warning instead of failing when
	// an endpoint is not registered.
	IgnoreMissing bool
}

// NewEdgeSpec returns an edge from→to with default options.
func NewEdgeSpec(from, to string) EdgeSpec {
	return EdgeSpec{
		From:               from,
		To:                 to,
		Curvature:          DefaultCurvature,
		Samples:            DefaultSamples,
		AvoidCrossingNodes: true,
		PutArrows:          true,
		ArrowPosition:      DefaultArrowPosition,
	}
}

// Normalized returns a copy with the sample count defaulted and the arrow
// position clamped to [0,1].
func (e EdgeSpec) Normalized() EdgeSpec {
	if e.Samples < 2 {
		e.Samples = DefaultSamples
	}
	e.ArrowPosition = clamp01(e.ArrowPosition)
	return e
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
