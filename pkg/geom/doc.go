// Package geom provides the planar primitives used by the edge router.
//
// # Overview
//
// Points are [r2.Vec] values from gonum. On top of them this package defines
// [Circle] containment with a proportional buffer ([Under]) and the quadratic
// Bézier [Quad] that every routed edge is built from.
//
// # Curvature
//
// A [Quad] is fully determined by its two endpoints and a signed curvature.
// The control point sits on the perpendicular bisector of the chord:
//
//	Pc = Pm + c·perp(P1-P0)/2
//
// where perp turns the chord a quarter turn clockwise. Positive curvature
// therefore bows the curve to the right of the travel direction in a y-up
// world, and zero curvature degenerates to the straight chord.
//
// # Sampling
//
// [Quad.Sample] evaluates the curve at evenly spaced parameters and always
// returns the exact endpoints at both ends, so routed polylines start and
// end precisely on the node centres.
package geom
