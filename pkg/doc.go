// Package pkg provides the core libraries for netarc edge routing.
//
// # Overview
//
// netarc routes the edges of directed network diagrams as quadratic Bézier
// arcs. Each arc bends away from unrelated node symbols, stays visible next
// to large endpoints and carries an arrowhead at a visible point. The pkg
// directory is organized into four main areas:
//
//  1. Geometry and routing ([geom], [network], [route])
//  2. Serialization ([graph])
//  3. Output ([render] and its subpackages)
//  4. Orchestration and infrastructure ([pipeline], [cache], [observability], [errors])
//
// # Architecture
//
// The typical data flow through netarc:
//
//	Diagram file (JSON, TOML, YAML)
//	         ↓
//	    [render/nodelink] (place nodes without coordinates)
//	         ↓
//	    [network] registry (resolve symbols to world radii)
//	         ↓
//	    [route] (crossing avoidance → self-cover avoidance → sample → arrow)
//	         ↓
//	    [graph] layout
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
// Route a diagram file and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/netarc/pkg/graph"
//	    "github.com/matzehuels/netarc/pkg/pipeline"
//	)
//
//	// 1. Read and validate the diagram
//	d, _ := graph.ReadDiagramFile("net.yaml")
//
//	// 2. Route every edge
//	l, _ := pipeline.RouteDiagram(context.Background(), d, pipeline.Options{})
//
//	// 3. Render
//	out, _ := pipeline.Render(context.Background(), l, []string{"svg"}, pipeline.Options{})
//
// # Main Packages
//
// [geom] - Circles with the buffered "under" test and quadratic Bézier
// curves with signed curvature.
//
// [network] - The node symbol sum type (circle or point), edge specs with
// their defaults and the read-only registry that resolves effective radii.
//
// [route] - The per-edge state machine, both avoidance searches, the
// visibility scan that places arrows, and the batch [route.Router].
//
// [graph] - Diagram input formats, validation and the routed layout format.
//
// [render] - View transform, arrowhead geometry and SVG to PDF/PNG
// conversion. [render/svg], [render/raster] and [render/nodelink] produce
// the output formats.
//
// [pipeline] - Complete place → route → render pipeline with caching, used
// by the CLI and the HTTP API.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/geom
// [network]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/network
// [route]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/route
// [route.Router]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/route#Router
// [graph]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/render/raster
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/netarc/pkg/errors
package pkg
