// Package lighting provides the viewer's fixed directional light.
package lighting

import (
	"github.com/Faultbox/objview/pkg/math"
)

// Directional is a light infinitely far away, expressed in model space so
// that it turns with the model.
type Directional struct {
	Direction [3]float32 // towards the light, normalized by Normalized
	Ambient   float32
	Diffuse   float32
	Specular  float32
}

// Default returns a white light from the upper right front.
func Default() Directional {
	return Directional{
		Direction: [3]float32{1, 1, 1},
		Ambient:   0.3,
		Diffuse:   0.7,
		Specular:  1,
	}
}

// Normalized returns the unit direction towards the light. A zero direction
// falls back to +Z.
func (d Directional) Normalized() [3]float32 {
	v := math.V3(d.Direction)
	if v.Length() == 0 {
		return [3]float32{0, 0, 1}
	}
	return v.Normalize().Array()
}
