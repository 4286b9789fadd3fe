// Package raster renders routed layouts as PNG images without external
// tools.
package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/render"
)

// Option configures PNG rendering.
type Option func(*renderer)

type renderer struct {
	scale      float64
	background color.Color
	nodeFill   color.Color
	nodeStroke color.Color
}

// WithScale multiplies the output resolution. A scale of 2 gives a 2x image.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithBackground sets the canvas colour, given as a hex string.
// Invalid colours are ignored.
func WithBackground(hex string) Option {
	return func(r *renderer) {
		if c, err := ParseHex(hex); err == nil {
			r.background = c
		}
	}
}

// Render draws l as a PNG.
func Render(l graph.Layout, opts ...Option) ([]byte, error) {
	r := renderer{
		scale:      1,
		background: color.White,
		nodeFill:   color.White,
		nodeStroke: color.RGBA{0x22, 0x22, 0x22, 0xff},
	}
	for _, opt := range opts {
		opt(&r)
	}

	v := render.NewView(l)
	w := int(math.Ceil(v.Width * r.scale))
	h := int(math.Ceil(v.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty view box %vx%v", v.Width, v.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(r.background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.SetLineCapRound()

	for _, e := range l.Edges {
		r.edge(dc, v, e)
	}
	for _, n := range l.Nodes {
		r.node(dc, v, n)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r renderer) edge(dc *gg.Context, v render.View, e graph.LayoutEdge) {
	c, err := ParseHex(e.Style.Color)
	if err != nil {
		c = r.nodeStroke
	}
	dc.SetColor(c)
	dc.SetLineWidth(e.Style.Width)

	segs := v.Segments(e)
	for i := 0; i+1 < len(segs); i += 2 {
		dc.MoveTo(segs[i].X, segs[i].Y)
		dc.LineTo(segs[i+1].X, segs[i+1].Y)
	}
	dc.Stroke()

	if e.Arrow == nil {
		return
	}
	tri := v.ArrowHead(*e.Arrow, e.Style.Width)
	dc.MoveTo(tri[0].X, tri[0].Y)
	dc.LineTo(tri[1].X, tri[1].Y)
	dc.LineTo(tri[2].X, tri[2].Y)
	dc.ClosePath()
	dc.Fill()
}

func (r renderer) node(dc *gg.Context, v render.View, n graph.LayoutNode) {
	c := v.Point(n.Center())
	if n.Shape == graph.ShapePoint {
		dc.SetColor(r.nodeStroke)
		dc.DrawCircle(c.X, c.Y, 2)
		dc.Fill()
		return
	}

	fill := r.nodeFill
	if n.Fill != "" {
		if f, err := ParseHex(n.Fill); err == nil {
			fill = f
		}
	}
	radius := v.Length(n.Radius)
	dc.DrawCircle(c.X, c.Y, radius)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(r.nodeStroke)
	dc.SetLineWidth(1)
	dc.Stroke()
}

// ParseHex parses #rgb, #rrggbb and #rrggbbaa colours.
func ParseHex(s string) (color.Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return nil, fmt.Errorf("color %q: want #rrggbb", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("color %q: want #rrggbb", s)
	}
	var c color.NRGBA
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
		return nil, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}
