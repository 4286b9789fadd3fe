// Package nodelink bridges routed diagrams and Graphviz.
//
// # Overview
//
// Graphviz is used for two jobs:
//
//   - [Place] fills in node positions for diagrams that leave them out,
//     reading the result back from Graphviz's "plain" output.
//   - [ToDOT] and [RenderSVG] export a routed layout with pinned node
//     positions, so Graphviz's own edge routing can be compared with ours.
//
// # Usage
//
//	n, err := nodelink.Place(ctx, diagram, nodelink.EngineNeato)
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Units
//
// Placement writes coordinates in inches, the unit of the plain format.
// DOT export maps the layout's view box to inches at 72 units per inch.
package nodelink
