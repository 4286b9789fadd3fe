package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netarc/pkg/network"
	"github.com/matzehuels/netarc/pkg/route"
)

// =============================================================================
// Layout - Routed Output Format
// =============================================================================

// Layout is a routed diagram: resolved node geometry plus one polyline per
// routed edge. All coordinates are world units.
type Layout struct {
	World Box     `json:"world"`
	View  Box     `json:"view"`
	Ratio float64 `json:"ratio"`

	Nodes   []LayoutNode  `json:"nodes"`
	Edges   []LayoutEdge  `json:"edges"`
	Skipped []SkippedEdge `json:"skipped,omitempty"`
}

// Frame returns the layout's world and view boxes.
func (l *Layout) Frame() network.Frame {
	return network.Frame{World: l.World.R2(), View: l.View.R2()}
}

// LayoutNode is a node with its radius in world units.
type LayoutNode struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Shape  string  `json:"shape"`
	Fill   string  `json:"fill,omitempty"`
}

// Center returns the node position.
func (n LayoutNode) Center() r2.Vec { return r2.Vec{X: n.X, Y: n.Y} }

// Point is an [x, y] pair.
type Point [2]float64

// PointOf converts a vector.
func PointOf(v r2.Vec) Point { return Point{v.X, v.Y} }

// Vec converts the point to a vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p[0], Y: p[1]} }

// LayoutArrow is an arrow segment; the head sits at To.
type LayoutArrow struct {
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Position float64 `json:"position"`
}

// LayoutEdge is one routed edge.
type LayoutEdge struct {
	Index     int     `json:"index"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Curvature float64 `json:"curvature"`

	// Points is the sampled polyline. Segment-pair form is not stored;
	// renderers expand it.
	Points []Point      `json:"points"`
	Arrow  *LayoutArrow `json:"arrow,omitempty"`
	Style  Style        `json:"style"`

	CrossingExhausted  bool `json:"crossing_exhausted,omitempty"`
	SelfCoverExhausted bool `json:"self_cover_exhausted,omitempty"`
	Degenerate         bool `json:"degenerate,omitempty"`
}

// Vecs returns the polyline as vectors.
func (e LayoutEdge) Vecs() []r2.Vec {
	out := make([]r2.Vec, len(e.Points))
	for i, p := range e.Points {
		out[i] = p.Vec()
	}
	return out
}

// SkippedEdge is an edge dropped because an endpoint was missing.
type SkippedEdge struct {
	Index  int    `json:"index"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for _, e := range l.Edges {
		if len(e.Points) < 2 {
			return Layout{}, fmt.Errorf("edge %s->%s: layout edge needs at least two points", e.From, e.To)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// LayoutSink
// =============================================================================

// LayoutSink collects routed edges into a [Layout]. It implements
// [route.Sink].
type LayoutSink struct {
	diagram *Diagram
	layout  Layout
	byIndex map[int]int
}

// NewLayoutSink starts a layout for d with the node geometry from reg.
func NewLayoutSink(d *Diagram, reg *network.Registry) *LayoutSink {
	f := reg.Frame()
	s := &LayoutSink{
		diagram: d,
		layout: Layout{
			World: BoxOf(f.World),
			View:  BoxOf(f.View),
			Ratio: reg.Ratio(),
			Nodes: make([]LayoutNode, 0, len(d.Nodes)),
			Edges: make([]LayoutEdge, 0, len(d.Edges)),
		},
		byIndex: make(map[int]int),
	}
	for i := range d.Nodes {
		n := &d.Nodes[i]
		res, ok := reg.Resolve(n.ID)
		if !ok {
			continue
		}
		shape := ShapeCircle
		if !res.Circular {
			shape = ShapePoint
		}
		s.layout.Nodes = append(s.layout.Nodes, LayoutNode{
			ID:     n.ID,
			Label:  n.Label,
			X:      res.Center.X,
			Y:      res.Center.Y,
			Radius: res.Radius,
			Shape:  shape,
			Fill:   n.Fill,
		})
	}
	return s
}

// EmitPolyline records an edge. points is in segment-pair form.
func (s *LayoutSink) EmitPolyline(ref route.EdgeRef, points []r2.Vec) error {
	e := LayoutEdge{
		Index:              ref.Index,
		From:               ref.From,
		To:                 ref.To,
		Curvature:          ref.Curvature,
		Points:             collapsePairs(points),
		Style:              s.diagram.EdgeStyle(ref.Index),
		CrossingExhausted:  ref.CrossingExhausted,
		SelfCoverExhausted: ref.SelfCoverExhausted,
		Degenerate:         ref.Degenerate,
	}
	s.byIndex[ref.Index] = len(s.layout.Edges)
	s.layout.Edges = append(s.layout.Edges, e)
	return nil
}

// EmitArrow attaches an arrow to a recorded edge.
func (s *LayoutSink) EmitArrow(ref route.EdgeRef, a route.Arrow) error {
	i, ok := s.byIndex[ref.Index]
	if !ok {
		return fmt.Errorf("arrow for unknown edge %d (%s->%s)", ref.Index, ref.From, ref.To)
	}
	s.layout.Edges[i].Arrow = &LayoutArrow{From: PointOf(a.Start), To: PointOf(a.End), Position: a.Position}
	return nil
}

// Layout returns the collected layout with the skipped edges of sum.
func (s *LayoutSink) Layout(sum route.Summary) Layout {
	l := s.layout
	for _, sk := range sum.Skipped {
		l.Skipped = append(l.Skipped, SkippedEdge{Index: sk.Index, From: sk.From, To: sk.To, Reason: sk.Reason})
	}
	return l
}

// collapsePairs turns p0,p1,p1,p2,... back into p0,p1,p2,...
func collapsePairs(pts []r2.Vec) []Point {
	if len(pts) < 2 {
		out := make([]Point, len(pts))
		for i, p := range pts {
			out[i] = PointOf(p)
		}
		return out
	}
	out := make([]Point, 0, len(pts)/2+1)
	out = append(out, PointOf(pts[0]))
	for i := 1; i < len(pts); i += 2 {
		out = append(out, PointOf(pts[i]))
	}
	return out
}
