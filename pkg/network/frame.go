package network

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Frame pairs the world extent of a diagram with the view (device) extent it
// is drawn into.
type Frame struct {
	World r2.Box
	View  r2.Box
}

// Ratio returns min(worldW/viewW, worldH/viewH), the factor that converts a
// view-space length into world units. A frame with an empty extent on
// either side has ratio 1.
func (f Frame) Ratio() float64 {
	w := r2.Sub(f.World.Max, f.World.Min)
	v := r2.Sub(f.View.Max, f.View.Min)
	if w.X <= 0 || w.Y <= 0 || v.X <= 0 || v.Y <= 0 {
		return 1
	}
	return math.Min(w.X/v.X, w.Y/v.Y)
}

// IsZero reports whether the frame was left unset.
func (f Frame) IsZero() bool {
	return f == Frame{}
}

// ToView maps a world point into view coordinates. The y axis is flipped so
// that world y grows upwards while view y grows downwards.
func (f Frame) ToView(p r2.Vec) r2.Vec {
	w := r2.Sub(f.World.Max, f.World.Min)
	v := r2.Sub(f.View.Max, f.View.Min)
	if w.X <= 0 || w.Y <= 0 {
		return p
	}
	sx := v.X / w.X
	sy := v.Y / w.Y
	return r2.Vec{
		X: f.View.Min.X + (p.X-f.World.Min.X)*sx,
		Y: f.View.Max.Y - (p.Y-f.World.Min.Y)*sy,
	}
}

// ScaleToView converts a world length into view units.
func (f Frame) ScaleToView(d float64) float64 {
	return d / f.Ratio()
}
