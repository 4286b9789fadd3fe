package route

import "github.com/matzehuels/netarc/pkg/geom"

// Self-cover constants, tuned together with the crossing table.
const (
	selfCoverSamples  = 40
	selfCoverMaxShare = 0.29
	selfCoverStep     = 0.4
	selfCoverLimit    = 5.0
	selfCoverFlip     = -1.4
	selfCoverFloor    = -15.0
)

// avoidSelfCover bends q until at most 29% of its interior samples are
// hidden under the source or target disc. Other nodes are ignored.
func avoidSelfCover(q *geom.Quad, src, dst geom.Circle) pass {
	var p pass
	for p.iterations < maxIterations {
		if coveredShare(*q, src, dst) <= selfCoverMaxShare {
			return p
		}

		p.iterations++

		c := q.Curvature()
		switch {
		case c > 0 && c <= selfCoverLimit:
			c += selfCoverStep
		case c > selfCoverLimit:
			c = selfCoverFlip
		case c > selfCoverFloor:
			c -= selfCoverStep
		default:
			p.exhausted = true
			return p
		}
		q.SetCurvature(c)
	}
	p.exhausted = true
	return p
}

// coveredShare is the fraction of interior samples under src or dst.
func coveredShare(q geom.Quad, src, dst geom.Circle) float64 {
	pts := q.Interior(selfCoverSamples)
	if len(pts) == 0 {
		return 0
	}
	return float64(geom.CountUnder(pts, 0, src, dst)) / float64(len(pts))
}
