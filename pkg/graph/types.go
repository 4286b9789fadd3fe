package graph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Constants
// =============================================================================

// Node shapes.
const (
	ShapeCircle = "circle"
	ShapePoint  = "point"
)

// Diagram file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// DefaultViewSize is the longer side of the view box used when a diagram
// does not declare one.
const DefaultViewSize = 800.0

// =============================================================================
// Box
// =============================================================================

// Box is an axis-aligned rectangle.
type Box struct {
	MinX float64 `json:"min_x" toml:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" toml:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" toml:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" toml:"max_y" yaml:"max_y"`
}

// BoxOf converts a gonum box.
func BoxOf(b r2.Box) Box {
	return Box{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
}

// R2 converts the box to a gonum box.
func (b Box) R2() r2.Box {
	return r2.Box{Min: r2.Vec{X: b.MinX, Y: b.MinY}, Max: r2.Vec{X: b.MaxX, Y: b.MaxY}}
}

// Width returns MaxX - MinX.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return !(b.Width() > 0 && b.Height() > 0) }

// =============================================================================
// Diagram - Input Format
// =============================================================================

// Diagram is the input format: positioned nodes plus the edges to route.
//
// World and View may be left empty. The world box then defaults to the node
// bounds and the view box to a DefaultViewSize rectangle with the same
// aspect ratio.
type Diagram struct {
	World    Box          `json:"world" toml:"world" yaml:"world"`
	View     Box          `json:"view" toml:"view" yaml:"view"`
	Defaults EdgeDefaults `json:"defaults,omitempty" toml:"defaults,omitempty" yaml:"defaults,omitempty"`
	Nodes    []Node       `json:"nodes" toml:"nodes" yaml:"nodes"`
	Edges    []Edge       `json:"edges" toml:"edges" yaml:"edges"`
}

// Node is a diagram vertex. X and Y are nil until the node is placed.
// Radius is in view units. Shape is "circle" (the default) or "point".
type Node struct {
	ID     string   `json:"id" toml:"id" yaml:"id"`
	X      *float64 `json:"x,omitempty" toml:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64 `json:"y,omitempty" toml:"y,omitempty" yaml:"y,omitempty"`
	Radius float64  `json:"radius,omitempty" toml:"radius,omitempty" yaml:"radius,omitempty"`
	Shape  string   `json:"shape,omitempty" toml:"shape,omitempty" yaml:"shape,omitempty"`
	Label  string   `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Fill   string   `json:"fill,omitempty" toml:"fill,omitempty" yaml:"fill,omitempty"`
}

// Placed reports whether the node has both coordinates.
func (n *Node) Placed() bool { return n.X != nil && n.Y != nil }

// Center returns the node position, or the origin when unplaced.
func (n *Node) Center() r2.Vec {
	if !n.Placed() {
		return r2.Vec{}
	}
	return r2.Vec{X: *n.X, Y: *n.Y}
}

// SetCenter places the node.
func (n *Node) SetCenter(p r2.Vec) {
	x, y := p.X, p.Y
	n.X, n.Y = &x, &y
}

// IsPoint reports whether the node is drawn as a point symbol.
func (n *Node) IsPoint() bool { return n.Shape == ShapePoint }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// EdgeOptions holds the optional routing fields shared by edges and
// diagram-wide defaults. Nil fields fall back to the built-in defaults.
type EdgeOptions struct {
	Curvature          *float64 `json:"curvature,omitempty" toml:"curvature,omitempty" yaml:"curvature,omitempty"`
	Samples            *int     `json:"samples,omitempty" toml:"samples,omitempty" yaml:"samples,omitempty"`
	AvoidCrossingNodes *bool    `json:"avoid_crossing_nodes,omitempty" toml:"avoid_crossing_nodes,omitempty" yaml:"avoid_crossing_nodes,omitempty"`
	PutArrows          *bool    `json:"put_arrows,omitempty" toml:"put_arrows,omitempty" yaml:"put_arrows,omitempty"`
	ArrowPosition      *float64 `json:"arrow_position,omitempty" toml:"arrow_position,omitempty" yaml:"arrow_position,omitempty"`
	IgnoreMissing      *bool    `json:"ignore_missing,omitempty" toml:"ignore_missing,omitempty" yaml:"ignore_missing,omitempty"`
}

// EdgeDefaults apply to every edge that does not override them.
type EdgeDefaults struct {
	EdgeOptions `yaml:",inline"`

	Color string  `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Width float64 `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
}

// Edge is a directed edge to route.
type Edge struct {
	From string `json:"from" toml:"from" yaml:"from"`
	To   string `json:"to" toml:"to" yaml:"to"`

	EdgeOptions `yaml:",inline"`

	Color string  `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Width float64 `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
}

// Style is the rendering attributes of an edge. The router never sees it.
type Style struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Default edge style.
const (
	DefaultEdgeColor = "#333333"
	DefaultEdgeWidth = 1.5
)

// EdgeStyle resolves the style of edge i against the diagram defaults.
func (d *Diagram) EdgeStyle(i int) Style {
	s := Style{Color: DefaultEdgeColor, Width: DefaultEdgeWidth}
	if d.Defaults.Color != "" {
		s.Color = d.Defaults.Color
	}
	if d.Defaults.Width > 0 {
		s.Width = d.Defaults.Width
	}
	if i < 0 || i >= len(d.Edges) {
		return s
	}
	if e := d.Edges[i]; e.Color != "" {
		s.Color = e.Color
	}
	if e := d.Edges[i]; e.Width > 0 {
		s.Width = e.Width
	}
	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func ptr[T any](v T) *T { return &v }
