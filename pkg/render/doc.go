// Package render turns routed layouts into images.
//
// # Overview
//
// Rendering is kept apart from routing: a [graph.Layout] carries world-unit
// geometry plus per-edge styles, and each renderer maps it into the view
// box with the y axis flipped.
//
//   - [svg]: SVG output drawn with svgo
//   - [raster]: PNG output drawn with gg, no external tools needed
//   - [nodelink]: Graphviz DOT export, Graphviz-rendered SVG and node placement
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	doc := svg.Render(layout)
//	pdf, err := render.ToPDF(ctx, doc)
//
// [svg]: github.com/matzehuels/netarc/pkg/render/svg
// [raster]: github.com/matzehuels/netarc/pkg/render/raster
// [nodelink]: github.com/matzehuels/netarc/pkg/render/nodelink
package render
