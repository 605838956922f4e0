package renderer

import (
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/pkg/formats"
)

// MaterialState is everything the device needs to draw a run.
type MaterialState struct {
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32 // clamped to [0, formats.MaxShininess]
	Opacity   float32
	Blend     bool           // alpha blending on when Opacity < 1
	Texture   texture.Handle // 0 = unbind
}

// DefaultMaterialState is used for faces without a material: flat gray,
// untextured, opaque.
func DefaultMaterialState() MaterialState {
	return stateOf(formats.DefaultMaterial(""), 0)
}

// MaterialStateFor returns the state for id in sc.
func MaterialStateFor(sc *scene.Scene, id scene.MaterialID) MaterialState {
	m, ok := sc.Material(id)
	if !ok {
		return DefaultMaterialState()
	}
	return stateOf(m, sc.Texture(id))
}

func stateOf(m formats.Material, tex texture.Handle) MaterialState {
	return MaterialState{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Shininess: m.ClampedShininess(),
		Opacity:   m.Opacity,
		Blend:     m.Translucent(),
		Texture:   tex,
	}
}
