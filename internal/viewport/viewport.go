// Package viewport maintains the mapping between screen space and logical
// canvas space under pan and zoom.
//
// The transform is a uniform scale about the screen center plus a
// screen-space offset. Conversions in the two directions are exact
// inverses for a fixed scale, offset, and screen size. The view transform
// is not part of the scene and never enters undo history.
package viewport

import "glyphboard/internal/geometry"

// Scale bounds for the zoom gesture.
const (
	MinScale = 0.5
	MaxScale = 3.0
)

// Transform converts between screen and canvas coordinates. It is owned
// by the event loop; the render layer receives a value copy per frame.
type Transform struct {
	scale     float64
	offset    geometry.Point
	screenW   float64
	screenH   float64
	baseScale float64
	pinching  bool
}

// New creates an identity transform (scale 1, no offset).
func New() *Transform {
	return &Transform{scale: 1, baseScale: 1}
}

// Scale returns the current zoom factor.
func (t *Transform) Scale() float64 {
	return t.scale
}

// Offset returns the current screen-space translation.
func (t *Transform) Offset() geometry.Point {
	return t.offset
}

// SetScale sets the zoom factor, clamped to [MinScale, MaxScale].
func (t *Transform) SetScale(s float64) {
	t.scale = clampScale(s)
}

// SetOffset sets the screen-space translation. Offsets are unclamped.
func (t *Transform) SetOffset(o geometry.Point) {
	t.offset = o
}

// SetScreenSize records the screen dimensions the conversions are
// anchored to. The render backend calls this on every resize.
func (t *Transform) SetScreenSize(width, height float64) {
	t.screenW = width
	t.screenH = height
}

// ScreenSize returns the recorded screen dimensions.
func (t *Transform) ScreenSize() (width, height float64) {
	return t.screenW, t.screenH
}

// ToCanvas converts a screen-space point to logical canvas coordinates.
func (t *Transform) ToCanvas(p geometry.Point) geometry.Point {
	cx, cy := t.screenW/2, t.screenH/2
	return geometry.Point{
		X: (p.X-cx-t.offset.X)/t.scale + cx,
		Y: (p.Y-cy-t.offset.Y)/t.scale + cy,
	}
}

// ToScreen converts a logical canvas point to screen-space coordinates.
// It is the exact inverse of ToCanvas.
func (t *Transform) ToScreen(p geometry.Point) geometry.Point {
	cx, cy := t.screenW/2, t.screenH/2
	return geometry.Point{
		X: (p.X-cx)*t.scale + t.offset.X + cx,
		Y: (p.Y-cy)*t.scale + t.offset.Y + cy,
	}
}

// PinchBegin starts a zoom gesture, capturing the current scale as the
// gesture baseline.
func (t *Transform) PinchBegin() {
	t.baseScale = t.scale
	t.pinching = true
}

// PinchUpdate applies a relative zoom factor against the gesture
// baseline. Called without PinchBegin it baselines on the current scale.
func (t *Transform) PinchUpdate(factor float64) {
	if !t.pinching {
		t.PinchBegin()
	}
	t.scale = clampScale(t.baseScale * factor)
}

// PinchEnd commits the gesture: the reached scale becomes the baseline
// for the next gesture.
func (t *Transform) PinchEnd() {
	t.baseScale = t.scale
	t.pinching = false
}

// Pan shifts the view by a screen-space delta. Deltas accumulate without
// clamping.
func (t *Transform) Pan(delta geometry.Point) {
	t.offset = t.offset.Add(delta)
}

// Reset restores the identity view, keeping the screen size.
func (t *Transform) Reset() {
	t.scale = 1
	t.baseScale = 1
	t.offset = geometry.Point{}
	t.pinching = false
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
