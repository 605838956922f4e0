package renderer

import (
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/pkg/formats"
)

// Vertex is one interleaved vertex as uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the byte size of Vertex.
const VertexSize = 8 * 4

// placeholderNormal is used until a corner supplies its own normal.
var placeholderNormal = [3]float32{0, 0, 1}

// Run is a range of vertices drawn with one material.
type Run struct {
	Material scene.MaterialID
	First    int32
	Count    int32
}

// DrawList is a scene flattened into triangles, batched by material in face order.
type DrawList struct {
	Vertices []Vertex
	Runs     []Run
	// Dropped counts triangles skipped because a corner's vertex index was invalid.
	Dropped int
}

// Triangles returns the number of triangles in the list.
func (dl DrawList) Triangles() int {
	return len(dl.Vertices) / 3
}

// Triangulate returns the fan decomposition of an n-gon: (0, k+1, k+2) for
// k in [0, n-2). Faces are assumed convex and planar.
func Triangulate(n int) [][3]int {
	if n < 3 {
		return nil
	}
	tris := make([][3]int, n-2)
	for k := range tris {
		tris[k] = [3]int{0, k + 1, k + 2}
	}
	return tris
}

// BuildDrawList walks the faces in stored order and emits their triangles.
//
// Texture coordinates and normals behave like current vertex attributes: a
// corner without a valid one reuses the last value emitted, starting from
// (0,0) and (0,0,1). A triangle with any invalid vertex index is dropped.
func BuildDrawList(sc *scene.Scene) DrawList {
	b := drawListBuilder{
		sc:       sc,
		normal:   placeholderNormal,
		lastRun:  -1,
		vertices: make([]Vertex, 0, sc.TriangleCount()*3),
	}

	for i, f := range sc.Faces {
		id := scene.NoMaterial
		if i < len(sc.FaceMaterials) {
			id = sc.FaceMaterials[i]
		}
		b.face(f, id)
	}

	return DrawList{
		Vertices: b.vertices,
		Runs:     compactRuns(b.runs),
		Dropped:  b.dropped,
	}
}

type drawListBuilder struct {
	sc       *scene.Scene
	vertices []Vertex
	runs     []Run
	lastRun  scene.MaterialID
	dropped  int

	normal   [3]float32
	texCoord [2]float32
}

func (b *drawListBuilder) face(f formats.OBJFace, id scene.MaterialID) {
	if len(b.runs) == 0 || id != b.lastRun {
		b.runs = append(b.runs, Run{Material: id, First: int32(len(b.vertices))})
		b.lastRun = id
	}

	run := &b.runs[len(b.runs)-1]
	for _, tri := range Triangulate(len(f.Corners)) {
		corners := [3]formats.OBJCorner{f.Corners[tri[0]], f.Corners[tri[1]], f.Corners[tri[2]]}
		if !b.validTriangle(corners) {
			b.dropped++
			continue
		}
		for _, c := range corners {
			b.vertices = append(b.vertices, b.vertex(c))
		}
		run.Count += 3
	}
}

func (b *drawListBuilder) validTriangle(corners [3]formats.OBJCorner) bool {
	for _, c := range corners {
		if !c.Valid(len(b.sc.Vertices)) {
			return false
		}
	}
	return true
}

func (b *drawListBuilder) vertex(c formats.OBJCorner) Vertex {
	if c.TexCoord >= 0 && c.TexCoord < len(b.sc.TexCoords) {
		b.texCoord = b.sc.TexCoords[c.TexCoord]
	}
	if c.Normal >= 0 && c.Normal < len(b.sc.Normals) {
		b.normal = b.sc.Normals[c.Normal]
	}
	return Vertex{
		Position: b.sc.Vertices[c.Vertex],
		Normal:   b.normal,
		TexCoord: b.texCoord,
	}
}

// compactRuns removes empty runs and merges neighbours that end up sharing
// a material.
func compactRuns(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Count == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Material == r.Material && out[n-1].First+out[n-1].Count == r.First {
			out[n-1].Count += r.Count
			continue
		}
		out = append(out, r)
	}
	return out
}
