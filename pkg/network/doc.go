// Package network holds the read-only geometry the edge router works on.
//
// # Overview
//
// A [Registry] maps node ids to a centre in world coordinates and a
// [Symbol]. Symbols are a closed sum type: a [Circle] carries a radius in
// view units, a [Point] has no extent. The registry converts circle radii to
// world units with the [Frame] ratio so that symbols drawn as circles on the
// device stay circular in world space.
//
// # Two-phase use
//
// Register every node first, then route. The registry is not safe for
// concurrent mutation, but once all nodes are added it may be read from many
// goroutines at once:
//
//	reg := network.NewRegistry(frame)
//	_ = reg.Add(network.Node{ID: "a", Center: r2.Vec{X: 0, Y: 0}, Symbol: network.Circle{Radius: 8}})
//	_ = reg.Add(network.Node{ID: "b", Center: r2.Vec{X: 1, Y: 0}, Symbol: network.Circle{Radius: 8}})
//	spec := network.NewEdgeSpec("a", "b")
//
// # Edge options
//
// [EdgeSpec] carries the per-edge routing options. [NewEdgeSpec] fills in
// the defaults (curvature 0.6, 120 samples, avoidance and arrows on, arrow
// at 0.75 of the visible run).
package network
