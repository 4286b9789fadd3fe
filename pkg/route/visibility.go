package route

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/geom"
)

// DomainKind tells how a visible domain was found.
type DomainKind int

const (
	// DomainNone means there is no domain, as for degenerate edges.
	DomainNone DomainKind = iota

	// DomainClear is the run of points after the curve leaves the source
	// and before it reaches the target.
	DomainClear

	// DomainOverlap is used when source and target overlap and the curve
	// leaves the source straight into the target. The domain is the run of
	// points, ending at the exit point, that lie under the target.
	DomainOverlap

	// DomainFallback is the whole polyline, used when no point leaves the
	// source.
	DomainFallback
)

func (k DomainKind) String() string {
	switch k {
	case DomainClear:
		return "clear"
	case DomainOverlap:
		return "overlap"
	case DomainFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Domain is a contiguous index range [Start, End) of a polyline.
type Domain struct {
	Start, End int
	Kind       DomainKind
}

// Len returns the number of points in the domain.
func (d Domain) Len() int { return d.End - d.Start }

// Points returns the slice of pts covered by the domain.
func (d Domain) Points(pts []r2.Vec) []r2.Vec {
	if d.Len() <= 0 {
		return nil
	}
	return pts[d.Start:d.End]
}

// ScanVisible finds the part of pts where an arrow is visible.
//
// The forward scan of a clear domain also stops if the curve dips back under
// the source, so no point of a clear domain is covered by either endpoint.
func ScanVisible(pts []r2.Vec, src, dst geom.Circle) Domain {
	if len(pts) == 0 {
		return Domain{}
	}

	exit := -1
	for i, p := range pts {
		if !geom.Under(p, src, 0) {
			exit = i
			break
		}
	}
	if exit < 0 {
		return Domain{Start: 0, End: len(pts), Kind: DomainFallback}
	}

	if geom.Under(pts[exit], dst, 0) {
		start := exit
		for start > 0 && geom.Under(pts[start-1], dst, 0) {
			start--
		}
		return Domain{Start: start, End: exit + 1, Kind: DomainOverlap}
	}

	end := exit + 1
	for end < len(pts) && !geom.Under(pts[end], dst, 0) && !geom.Under(pts[end], src, 0) {
		end++
	}
	return Domain{Start: exit, End: end, Kind: DomainClear}
}

// Arrow is the segment an arrowhead is drawn on. The head sits at End and
// points away from Start.
type Arrow struct {
	Start, End r2.Vec
	Position   float64
}

// Direction returns the unit vector from Start to End.
func (a Arrow) Direction() r2.Vec {
	d := r2.Sub(a.End, a.Start)
	n := r2.Norm(d)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, d)
}

// PlaceArrow picks the arrow segment inside d at relative position pos.
// A one-point domain is widened by a neighbouring polyline point so the
// arrow still has a direction. It returns false when pts has fewer than two
// points.
func PlaceArrow(pts []r2.Vec, d Domain, pos float64) (Arrow, bool) {
	if d.Len() < 2 {
		d = widen(d, len(pts))
	}
	dom := d.Points(pts)
	if len(dom) < 2 {
		return Arrow{}, false
	}

	idx := int(math.Floor(pos*float64(len(dom)))) - 1
	idx = max(idx, 1)
	idx = min(idx, len(dom)-1)
	return Arrow{Start: dom[idx-1], End: dom[idx], Position: pos}, true
}

// widen grows d to two points, preferring the point after it so the arrow
// keeps pointing towards the target.
func widen(d Domain, n int) Domain {
	if d.Len() <= 0 {
		return d
	}
	switch {
	case d.End < n:
		d.End++
	case d.Start > 0:
		d.Start--
	}
	return d
}
