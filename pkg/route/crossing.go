package route

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/geom"
)

// maxIterations caps both avoidance loops. The adjustment rules reach their
// give-up branch long before this.
const maxIterations = 200

// Crossing avoidance constants. The thresholds form a state table tuned by
// hand; changing any of them changes routed output.
const (
	crossingSamples  = 1000
	crossingBuffer   = 0.08
	crossingStep     = 0.3
	crossingLimit    = 10.0
	crossingFlip     = -0.4
	crossingFallback = 5.0
)

// pass reports how an avoidance loop ended.
type pass struct {
	iterations int
	exhausted  bool
}

// avoidCrossings bends q until no interior sample lies under an obstacle.
// The curvature grows in its current direction, flips sign once it passes
// +10, and settles on a fixed bow of 5 once it passes -10.
func avoidCrossings(q *geom.Quad, obstacles []geom.Circle) pass {
	var p pass
	if len(obstacles) == 0 {
		return p
	}
	for p.iterations < maxIterations {
		if !crosses(q.Interior(crossingSamples), obstacles) {
			return p
		}
		p.iterations++

		c := q.Curvature()
		switch {
		case c > 0 && c < crossingLimit:
			c += crossingStep
		case c >= crossingLimit:
			c = crossingFlip
		case c > -crossingLimit:
			c -= crossingStep
		default:
			q.SetCurvature(crossingFallback)
			p.exhausted = true
			return p
		}
		q.SetCurvature(c)
	}
	p.exhausted = true
	return p
}

// crosses reports whether any point lies under any obstacle.
func crosses(pts []r2.Vec, obstacles []geom.Circle) bool {
	for _, pt := range pts {
		for _, o := range obstacles {
			if geom.Under(pt, o, crossingBuffer) {
				return true
			}
		}
	}
	return false
}
