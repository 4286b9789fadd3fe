// Package graph provides the file formats for network diagrams and their
// routed layouts.
//
// This package sits at the serialization boundary: it decodes user-facing
// diagram files into routing inputs and collects routed geometry into a
// layout that renderers, caches and the HTTP API share.
//
// # Core Types
//
//   - [Diagram]: input format with nodes, edges and optional frame boxes
//   - [Layout]: routed output with world-unit node geometry and polylines
//   - [LayoutSink]: a [route.Sink] that assembles a Layout
//
// # Diagram Files
//
// Diagrams are read from JSON, TOML or YAML; [ReadDiagramFile] picks the
// decoder from the file extension:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0, "y": 0, "radius": 12},
//	    {"id": "b", "x": 1, "y": 0, "radius": 12}
//	  ],
//	  "edges": [{"from": "a", "to": "b", "curvature": 0.4}]
//	}
//
// Node radii are in view units (pixels of the output image); positions are
// world units. Edge options left out fall back to the diagram's defaults and
// then to the router defaults.
//
// # Routing
//
//	d, err := graph.ReadDiagramFile("net.json")
//	reg, err := d.Registry()
//	sink := graph.NewLayoutSink(d, reg)
//	sum, err := router.Route(ctx, reg, d.EdgeSpecs(), sink)
//	layout := sink.Layout(sum)
//
// Rendering attributes such as edge colour stay in the diagram and are
// attached to the layout by the sink; the router never sees them.
package graph
