package renderer

import (
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/pkg/math"
)

// Projection holds the fixed camera lens settings.
type Projection struct {
	FovY     float32 // degrees
	Near     float32
	Far      float32
	Distance float32 // camera distance at zoom 1
}

// DefaultProjection returns a 45 degree lens with planes at 0.1 and 100,
// five units from the model.
func DefaultProjection() Projection {
	return Projection{FovY: 45, Near: 0.1, Far: 100, Distance: 5}
}

// Transform is the per-frame camera state handed to the device.
type Transform struct {
	MVP math.Mat4
	// Eye is the camera position in model space, for specular highlights.
	Eye math.Vec3
}

// ViewProjection composes
//
//	P · T(0, 0, -distance/zoom) · Rx(pitch) · Ry(yaw) · S(1/scale) · T(-center)
//
// which moves the model's bounding box center to the origin, fits it into a
// unit cube and orbits it in front of the camera. The center is subtracted
// in model units before scaling; scaling first and then translating by
// -center would leave any model whose scale is not 1 off screen. A
// non-positive aspect is treated as 1.
func ViewProjection(vs *camera.ViewState, center math.Vec3, scale, aspect float32, p Projection) Transform {
	if aspect <= 0 {
		aspect = 1
	}
	if scale == 0 {
		scale = 1
	}
	dist := vs.Distance(p.Distance)
	pitch := math.Radians(vs.Pitch)
	yaw := math.Radians(vs.Yaw)

	mvp := math.Chain(
		math.Perspective(math.Radians(p.FovY), aspect, p.Near, p.Far),
		math.Translate(0, 0, -dist),
		math.RotateX(pitch),
		math.RotateY(yaw),
		math.UniformScale(1/scale),
		math.TranslateVec(center.Negate()),
	)

	// Inverse of the model-view applied to the eye-space origin
	toModel := math.Chain(
		math.TranslateVec(center),
		math.UniformScale(scale),
		math.RotateY(-yaw),
		math.RotateX(-pitch),
	)
	eye := math.V3(toModel.TransformPoint([3]float32{0, 0, dist}))

	return Transform{MVP: mvp, Eye: eye}
}
