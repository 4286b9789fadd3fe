package route

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// EdgeRef identifies a routed edge to a [Sink]. Index is the edge's position
// in the batch, which sinks use to look up styling kept outside the router.
type EdgeRef struct {
	Index     int
	From, To  string
	Curvature float64

	CrossingExhausted  bool
	SelfCoverExhausted bool
	Degenerate         bool
}

// Sink receives routed geometry. Points passed to EmitPolyline are in draw
// form (see [Polyline.DrawPoints]). The router calls a sink from a single
// goroutine, in edge order.
type Sink interface {
	EmitPolyline(ref EdgeRef, points []r2.Vec) error
	EmitArrow(ref EdgeRef, arrow Arrow) error
}

// Emitted is one edge recorded by a [Collector].
type Emitted struct {
	Ref    EdgeRef
	Points []r2.Vec
	Arrow  *Arrow
}

// Collector is a Sink that keeps everything in memory.
type Collector struct {
	mu    sync.Mutex
	Edges []Emitted
}

func (c *Collector) EmitPolyline(ref EdgeRef, points []r2.Vec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Edges = append(c.Edges, Emitted{Ref: ref, Points: points})
	return nil
}

func (c *Collector) EmitArrow(ref EdgeRef, arrow Arrow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.Edges) - 1; i >= 0; i-- {
		if c.Edges[i].Ref.Index == ref.Index {
			c.Edges[i].Arrow = &arrow
			return nil
		}
	}
	c.Edges = append(c.Edges, Emitted{Ref: ref, Arrow: &arrow})
	return nil
}

func refOf(index int, r Result) EdgeRef {
	return EdgeRef{
		Index:              index,
		From:               r.Spec.From,
		To:                 r.Spec.To,
		Curvature:          r.Curvature,
		CrossingExhausted:  r.CrossingExhausted,
		SelfCoverExhausted: r.SelfCoverExhausted,
		Degenerate:         r.Degenerate,
	}
}
