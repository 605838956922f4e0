package scene

import (
	"errors"
	"io/fs"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

func parseOBJ(t *testing.T, src string) *formats.OBJ {
	t.Helper()
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	return obj
}

func parseMTL(t *testing.T, src string) *formats.MTL {
	t.Helper()
	lib, err := formats.ParseMTL(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("ParseMTL: %v", err)
	}
	return lib
}

var (
	nan = float32(gomath.NaN())
	inf = float32(gomath.Inf(1))
)

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name     string
		vertices [][3]float32
		center   math.Vec3
		scale    float32
	}{
		{"diagonal", [][3]float32{{0, 0, 0}, {2, 2, 2}}, math.Vec3{X: 1, Y: 1, Z: 1}, 1},
		{"empty", nil, math.Vec3{}, 1},
		{"coincident", [][3]float32{{3, 3, 3}, {3, 3, 3}}, math.Vec3{X: 3, Y: 3, Z: 3}, 1},
		{"single", [][3]float32{{-1, 2, 5}}, math.Vec3{X: -1, Y: 2, Z: 5}, 1},
		{"widest axis", [][3]float32{{-4, 0, 0}, {4, 1, 2}}, math.Vec3{X: 0, Y: 0.5, Z: 1}, 4},
		{"nan", [][3]float32{{0, 0, 0}, {nan, 2, 2}}, math.Vec3{}, 1},
		{"inf", [][3]float32{{0, 0, 0}, {inf, 2, 2}}, math.Vec3{}, 1},
		{"negative inf", [][3]float32{{-inf, 0, 0}, {2, 2, 2}}, math.Vec3{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, center, scale := computeBounds(tt.vertices)
			if center != tt.center {
				t.Errorf("center = %+v, want %+v", center, tt.center)
			}
			if scale != tt.scale {
				t.Errorf("scale = %v, want %v", scale, tt.scale)
			}
		})
	}
}

func TestBuildSkipsNonFiniteVertices(t *testing.T) {
	for _, bad := range []string{"nan", "inf", "-inf"} {
		t.Run(bad, func(t *testing.T) {
			obj := parseOBJ(t, "v 0 0 0\nv 2 2 2\nv "+bad+" 0 0\nf 1 2 3\n")
			s := Build(obj)

			if len(s.Vertices) != 2 {
				t.Errorf("expected 2 vertices, got %d", len(s.Vertices))
			}
			if s.Center != (math.Vec3{X: 1, Y: 1, Z: 1}) || s.Scale != 1 {
				t.Errorf("center = %+v scale = %v, want (1,1,1) and 1", s.Center, s.Scale)
			}
			if len(obj.Warnings) != 1 {
				t.Errorf("expected the bad vertex line to warn, got %v", obj.Warnings)
			}
		})
	}
}

func TestBuildInternsMaterials(t *testing.T) {
	obj := parseOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
usemtl blue
f 1 2 3
usemtl red
f 1 2 3
usemtl blue
f 1 2 3
usemtl ghost
f 1 2 3
f 1 2 3
`)
	lib := parseMTL(t, "newmtl red\nKd 1 0 0\nnewmtl blue\nKd 0 0 1\nnewmtl unused\n")

	s := Build(obj, lib)

	want := []MaterialID{NoMaterial, 0, 1, 0, NoMaterial, NoMaterial}
	for i, id := range want {
		if s.FaceMaterials[i] != id {
			t.Errorf("face %d: material id %d, want %d", i, s.FaceMaterials[i], id)
		}
	}

	// Interned in order of first use; unused materials are not registered
	if len(s.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(s.Materials))
	}
	if s.Materials[0].Name != "blue" || s.Materials[1].Name != "red" {
		t.Errorf("materials = %s, %s", s.Materials[0].Name, s.Materials[1].Name)
	}
	if len(s.Textures) != len(s.Materials) {
		t.Errorf("textures not parallel to materials: %d vs %d", len(s.Textures), len(s.Materials))
	}

	// One warning for the undefined name, however many faces use it
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0].Msg, "ghost") {
		t.Errorf("expected one warning for ghost, got %v", s.Warnings)
	}
}

func TestBuildLaterLibraryWins(t *testing.T) {
	obj := parseOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl m\nf 1 2 3\n")
	first := parseMTL(t, "newmtl m\nKd 1 0 0\n")
	second := parseMTL(t, "newmtl m\nKd 0 1 0\n")

	s := Build(obj, first, nil, second)

	m, ok := s.Material(s.FaceMaterials[0])
	if !ok {
		t.Fatal("expected material")
	}
	if m.Diffuse != [3]float32{0, 1, 0} {
		t.Errorf("Kd = %v, want second library's value", m.Diffuse)
	}
}

func TestBuildWarnsOnInvalidReferences(t *testing.T) {
	obj := parseOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nf 1 2 7\n")
	s := Build(obj)

	if len(s.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", s.Warnings)
	}
	if s.Warnings[0].Line != 5 {
		t.Errorf("warning on line %d, want 5", s.Warnings[0].Line)
	}
	if strings.Contains(s.Warnings[0].Msg, "group") {
		t.Errorf("ungrouped face should not name a group: %q", s.Warnings[0].Msg)
	}
}

func TestBuildWarningsNameGroup(t *testing.T) {
	obj := parseOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
g Lid
f 1 2 9
o Handle
usemtl ghost
f 1 2 3
`)
	s := Build(obj)

	tests := []struct {
		line int
		frag string
	}{
		{5, `face in group "Lid" references 1`},
		{8, `material "ghost" in group "Handle"`},
	}
	if len(s.Warnings) != len(tests) {
		t.Fatalf("expected %d warnings, got %v", len(tests), s.Warnings)
	}
	for i, tt := range tests {
		w := s.Warnings[i]
		if w.Line != tt.line || !strings.Contains(w.Msg, tt.frag) {
			t.Errorf("warning %d = %v, want line %d containing %q", i, w, tt.line, tt.frag)
		}
	}
}

func TestMaterialAndTextureLookup(t *testing.T) {
	obj := parseOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl a\nf 1 2 3\n")
	s := Build(obj, parseMTL(t, "newmtl a\n"))

	if _, ok := s.Material(NoMaterial); ok {
		t.Error("NoMaterial should not resolve")
	}
	if _, ok := s.Material(5); ok {
		t.Error("out-of-range id should not resolve")
	}
	if s.Texture(NoMaterial) != 0 || s.Texture(0) != 0 {
		t.Error("expected no textures before SetTextures")
	}

	s.SetTextures(map[int]texture.Handle{0: 7, 3: 9})
	if s.Texture(0) != 7 {
		t.Errorf("Texture(0) = %d, want 7", s.Texture(0))
	}
}

type recordingUploader struct {
	deleted []texture.Handle
}

func (u *recordingUploader) Create(texture.Pixels) (texture.Handle, error) { return 0, nil }
func (u *recordingUploader) Delete(h texture.Handle)                      { u.deleted = append(u.deleted, h) }

func TestRelease(t *testing.T) {
	obj := parseOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl a\nf 1 2 3\nusemtl b\nf 1 2 3\n")
	s := Build(obj, parseMTL(t, "newmtl a\nnewmtl b\n"))
	s.SetTextures(map[int]texture.Handle{0: 3, 1: 3})

	up := &recordingUploader{}
	s.Release(up)

	if len(up.deleted) != 1 || up.deleted[0] != 3 {
		t.Errorf("deleted = %v, want [3]", up.deleted)
	}
	if s.Texture(0) != 0 || s.Texture(1) != 0 {
		t.Error("handles should be cleared after Release")
	}
}

func TestTriangleCount(t *testing.T) {
	obj := parseOBJ(t, "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv 0 2 0\nf 1 2 3\nf 1 2 3 4 5\n")
	if got := Build(obj).TriangleCount(); got != 4 {
		t.Errorf("TriangleCount = %d, want 4", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models", "box.obj"), `mtllib mat/box.mtl
mtllib missing.mtl
v 0 0 0
v 2 0 0
v 2 2 2
usemtl wood
f 1 2 3
`)
	writeFile(t, filepath.Join(dir, "models", "mat", "box.mtl"), "newmtl wood\nKd 0.5 0.3 0.1\nmap_Kd wood.png\n")

	s, err := Load(filepath.Join(dir, "models", "box.obj"), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(s.Materials))
	}
	wantTex := filepath.Join(dir, "models", "mat", "wood.png")
	if s.Materials[0].DiffuseMap != wantTex {
		t.Errorf("DiffuseMap = %q, want %q", s.Materials[0].DiffuseMap, wantTex)
	}
	if s.FaceMaterials[0] != 0 {
		t.Errorf("face material = %d, want 0", s.FaceMaterials[0])
	}
	if s.Center != (math.Vec3{X: 1, Y: 1, Z: 1}) || s.Scale != 1 {
		t.Errorf("center %+v scale %v", s.Center, s.Scale)
	}
}

func TestLoadWithoutLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	writeFile(t, path, "mtllib gone.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl red\nf 1 2 3\n")

	s, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Materials) != 0 {
		t.Errorf("expected no materials, got %d", len(s.Materials))
	}
	if s.FaceMaterials[0] != NoMaterial {
		t.Errorf("expected NoMaterial, got %d", s.FaceMaterials[0])
	}
}

func TestLoadMissingOBJ(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nothing.obj"), LoadOptions{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	var le *formats.LoadError
	if !errors.As(err, &le) {
		t.Errorf("expected *formats.LoadError, got %T", err)
	}
}

func TestLibraryPath(t *testing.T) {
	dir := filepath.FromSlash("/models")
	tests := []struct {
		ref  string
		want string
	}{
		{"a.mtl", filepath.Join(dir, "a.mtl")},
		{`sub\a.mtl`, filepath.Join(dir, "sub", "a.mtl")},
		{"/abs/a.mtl", filepath.FromSlash("/abs/a.mtl")},
	}
	for _, tt := range tests {
		if got := libraryPath(dir, tt.ref); got != tt.want {
			t.Errorf("libraryPath(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
