// Package route computes curved edge paths for network diagrams.
//
// # Overview
//
// Every edge is a quadratic Bézier curve between the centres of its two
// nodes (see [geom.Quad]). Before the curve is sampled, two avoidance passes
// may adjust its curvature:
//
//   - Crossing avoidance bends the edge away from unrelated circular nodes.
//     It is skipped when either endpoint is a point symbol.
//   - Self-cover avoidance bends the edge until no more than 29% of it is
//     hidden under its own source and target discs.
//
// Both passes follow fixed step tables and stop after at most 200
// iterations. A pass that gives up leaves the result flagged as exhausted;
// the edge is still drawn.
//
// Finally [ScanVisible] finds the run of points outside both endpoints and
// [PlaceArrow] picks the arrow segment from it.
//
// # Usage
//
// Route a single edge:
//
//	reg := network.NewRegistry(frame)
//	reg.Add(network.Node{ID: "a", Center: r2.Vec{X: 0, Y: 0}, Symbol: network.Circle{Radius: 5}})
//	reg.Add(network.Node{ID: "b", Center: r2.Vec{X: 1, Y: 0}, Symbol: network.Circle{Radius: 5}})
//	res, err := route.Route(reg, network.NewEdgeSpec("a", "b"))
//
// Route a batch in parallel and stream the geometry to a sink:
//
//	rt := &route.Router{Logger: logger, Parallelism: 4}
//	summary, err := rt.Route(ctx, reg, specs, sink)
//
// [Route] only reads the registry, so it is safe to call concurrently once
// all nodes are registered. [Router.Route] always emits in spec order.
package route
