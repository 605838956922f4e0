// Package camera holds the orbit/zoom view state driven by pointer input.
package camera

import (
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
)

// Button identifies a pointer button. Values follow SDL's numbering.
type Button uint8

// Pointer buttons.
const (
	ButtonPrimary   Button = 1
	ButtonMiddle    Button = 2
	ButtonSecondary Button = 3
)

// Defaults for a new ViewState.
const (
	DefaultSensitivity = 0.5 // degrees per pixel
	DefaultZoomBase    = 1.1
	DefaultMinZoom     = 0.0625
	DefaultMaxZoom     = 40
)

// ViewState is the orbit rotation and zoom of the viewer. It is mutated only
// by the pointer handlers and read by the renderer.
type ViewState struct {
	Pitch    float32 // degrees about X, unbounded
	Yaw      float32 // degrees about Y, unbounded
	Zoom     float32 // > 0, 1 = initial distance
	Last     math.Vec2
	Dragging bool

	// Sensitivity converts pointer pixels to degrees.
	Sensitivity float32
	// ZoomBase is the zoom factor per scroll step.
	ZoomBase float32
	// MinZoom and MaxZoom bound Zoom so the camera stays between the clip planes.
	MinZoom float32
	MaxZoom float32
}

// NewViewState returns the identity view: no rotation, zoom 1.
func NewViewState() *ViewState {
	return &ViewState{
		Zoom:        1,
		Sensitivity: DefaultSensitivity,
		ZoomBase:    DefaultZoomBase,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
	}
}

// PointerDown starts a drag when the primary button is pressed.
func (v *ViewState) PointerDown(b Button, x, y float32) {
	if b != ButtonPrimary {
		return
	}
	v.Dragging = true
	v.Last = math.Vec2{X: x, Y: y}
}

// PointerUp ends a drag when the primary button is released.
func (v *ViewState) PointerUp(b Button) {
	if b != ButtonPrimary {
		return
	}
	v.Dragging = false
}

// PointerMove rotates the view by the distance moved since the last
// recorded position while dragging.
func (v *ViewState) PointerMove(x, y float32) {
	if !v.Dragging {
		return
	}
	pos := math.Vec2{X: x, Y: y}
	d := pos.Sub(v.Last)
	v.Pitch += v.Sensitivity * d.Y
	v.Yaw += v.Sensitivity * d.X
	v.Last = pos
}

// Scroll multiplies zoom by ZoomBase^delta; positive deltas zoom in.
func (v *ViewState) Scroll(delta float32) {
	v.Zoom *= float32(gomath.Pow(float64(v.ZoomBase), float64(delta)))
	v.clampZoom()
}

func (v *ViewState) clampZoom() {
	if v.MinZoom > 0 && v.Zoom < v.MinZoom {
		v.Zoom = v.MinZoom
	}
	if v.MaxZoom > 0 && v.Zoom > v.MaxZoom {
		v.Zoom = v.MaxZoom
	}
}

// Reset restores the identity view. Tuning fields are kept.
func (v *ViewState) Reset() {
	v.Pitch = 0
	v.Yaw = 0
	v.Zoom = 1
	v.Dragging = false
}

// Distance returns how far the camera sits from the model at the current
// zoom, given the distance at zoom 1.
func (v *ViewState) Distance(base float32) float32 {
	return base / v.Zoom
}
