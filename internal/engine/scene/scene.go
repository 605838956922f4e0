// Package scene turns parsed OBJ geometry and MTL materials into an
// immutable, render-ready model.
package scene

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

// MaterialID indexes Scene.Materials.
type MaterialID int32

// NoMaterial marks faces drawn with the implicit default material.
const NoMaterial MaterialID = -1

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Scene is a loaded model. Everything except Textures is fixed after Build.
type Scene struct {
	Path string

	Vertices  [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Faces     []formats.OBJFace

	// FaceMaterials is parallel to Faces.
	FaceMaterials []MaterialID
	// Materials is indexed by MaterialID, in order of first use.
	Materials []formats.Material
	// Textures is parallel to Materials; 0 means untextured.
	Textures []texture.Handle

	Bounds Bounds
	Center math.Vec3
	Scale  float32 // half of the largest bounding box extent, never 0

	Warnings []formats.Warning
}

// Build cross-references faces with the material libraries. Libraries are
// applied in order so that a later definition of a name wins.
func Build(obj *formats.OBJ, libs ...*formats.MTL) *Scene {
	registry := make(map[string]formats.Material)
	for _, lib := range libs {
		if lib == nil {
			continue
		}
		for _, m := range lib.Materials {
			registry[m.Name] = m
		}
	}

	s := &Scene{
		Vertices:      obj.Vertices,
		Normals:       obj.Normals,
		TexCoords:     obj.TexCoords,
		Faces:         obj.Faces,
		FaceMaterials: make([]MaterialID, len(obj.Faces)),
	}

	ids := make(map[string]MaterialID)
	unknown := make(map[string]bool)

	for i, f := range obj.Faces {
		s.FaceMaterials[i] = s.intern(f, registry, ids, unknown)

		if bad := obj.InvalidReferences(f); bad > 0 {
			s.warn(f.Line, "face%s references %d out-of-range index(es), affected corners are skipped", inGroup(f), bad)
		}
	}

	s.Textures = make([]texture.Handle, len(s.Materials))
	s.Bounds, s.Center, s.Scale = computeBounds(s.Vertices)
	return s
}

func (s *Scene) intern(f formats.OBJFace, registry map[string]formats.Material, ids map[string]MaterialID, unknown map[string]bool) MaterialID {
	if f.Material == "" {
		return NoMaterial
	}
	if id, ok := ids[f.Material]; ok {
		return id
	}
	m, ok := registry[f.Material]
	if !ok {
		if !unknown[f.Material] {
			unknown[f.Material] = true
			s.warn(f.Line, "material %q%s is not defined in any library, using default", f.Material, inGroup(f))
		}
		return NoMaterial
	}

	id := MaterialID(len(s.Materials))
	ids[f.Material] = id
	s.Materials = append(s.Materials, m)
	return id
}

// inGroup names the face's o/g group for warnings, "" when it has none.
func inGroup(f formats.OBJFace) string {
	if f.Group == "" {
		return ""
	}
	return fmt.Sprintf(" in group %q", f.Group)
}

func (s *Scene) warn(line int, format string, args ...any) {
	s.Warnings = append(s.Warnings, formats.Warning{Line: line, Msg: fmt.Sprintf(format, args...)})
}

// computeBounds returns the bounding box, its midpoint and half its largest
// extent. An empty, degenerate or non-finite model gets scale 1, and a
// non-finite center falls back to the origin.
func computeBounds(vertices [][3]float32) (Bounds, math.Vec3, float32) {
	if len(vertices) == 0 {
		return Bounds{}, math.Vec3{}, 1
	}

	b := Bounds{Min: math.V3(vertices[0]), Max: math.V3(vertices[0])}
	for _, v := range vertices[1:] {
		p := math.V3(v)
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}

	center := b.Min.Add(b.Max).Scale(0.5)
	if !finite(center.X) || !finite(center.Y) || !finite(center.Z) {
		center = math.Vec3{}
	}
	scale := b.Size().MaxComponent() / 2
	if !finite(scale) || scale <= 0 {
		scale = 1
	}
	return b, center, scale
}

func finite(f float32) bool {
	return !gomath.IsNaN(float64(f)) && !gomath.IsInf(float64(f), 0)
}

// Material returns the material for id, or false for NoMaterial and
// out-of-range ids.
func (s *Scene) Material(id MaterialID) (formats.Material, bool) {
	if id < 0 || int(id) >= len(s.Materials) {
		return formats.Material{}, false
	}
	return s.Materials[id], true
}

// Texture returns the texture handle for id, 0 if none.
func (s *Scene) Texture(id MaterialID) texture.Handle {
	if id < 0 || int(id) >= len(s.Textures) {
		return 0
	}
	return s.Textures[id]
}

// SetTextures records handles keyed by material index, as returned by
// texture.Resolve.
func (s *Scene) SetTextures(handles map[int]texture.Handle) {
	for i, h := range handles {
		if i >= 0 && i < len(s.Textures) {
			s.Textures[i] = h
		}
	}
}

// Release deletes the scene's textures.
func (s *Scene) Release(up texture.Uploader) {
	handles := make(map[int]texture.Handle, len(s.Textures))
	for i, h := range s.Textures {
		if h != 0 {
			handles[i] = h
		}
	}
	texture.ReleaseAll(handles, up)
	for i := range s.Textures {
		s.Textures[i] = 0
	}
}

// TriangleCount returns how many triangles fan triangulation yields.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, f := range s.Faces {
		n += len(f.Corners) - 2
	}
	return n
}
