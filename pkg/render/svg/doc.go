// Package svg renders routed layouts as SVG documents.
//
// The output is sized to the layout's view box. Edges come first so that
// node symbols cover edge ends, matching how the router judges visibility.
//
//	doc := svg.Render(layout, svg.WithBackground("#ffffff"), svg.WithLabels())
package svg
