// Package mapview models the zoomable distribution map: a scale and a
// translation applied to an image that fills its frame at scale 1.
package mapview

import (
	"fmt"
	"math"
)

const (
	MinScale = 1.0
	MaxScale = 8.0
	// Step is the relative scale change of one wheel notch.
	Step = 0.2
)

// Viewport is the map transform. The zero value is not valid; use New.
type Viewport struct {
	Scale float64
	X, Y  float64
}

// New returns the identity viewport.
func New() Viewport { return Viewport{Scale: MinScale} }

// Zoom changes the scale by steps wheel notches (positive zooms in) while
// keeping the frame point (focusX, focusY) over the same map point. w and h
// are the frame size.
func (v *Viewport) Zoom(steps, focusX, focusY, w, h float64) {
	if v.Scale < MinScale {
		v.Scale = MinScale
	}
	next := clamp(v.Scale*math.Pow(1+Step, steps), MinScale, MaxScale)
	if next == v.Scale {
		return
	}
	mx := (focusX - v.X) / v.Scale
	my := (focusY - v.Y) / v.Scale
	v.Scale = next
	v.X = focusX - mx*next
	v.Y = focusY - my*next
	v.bound(w, h)
}

// Pan translates the map by (dx, dy), keeping it inside the frame.
func (v *Viewport) Pan(dx, dy, w, h float64) {
	v.X += dx
	v.Y += dy
	v.bound(w, h)
}

// Reset restores the identity transform.
func (v *Viewport) Reset() { *v = New() }

// Zoomed reports whether the map is magnified.
func (v Viewport) Zoomed() bool { return v.Scale > MinScale }

// CSS returns the transform for an element with transform-origin 0 0.
func (v Viewport) CSS() string {
	return fmt.Sprintf("translate(%.2fpx, %.2fpx) scale(%.3f)", v.X, v.Y, v.Scale)
}

func (v *Viewport) bound(w, h float64) {
	v.X = clamp(v.X, w-w*v.Scale, 0)
	v.Y = clamp(v.Y, h-h*v.Scale, 0)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
