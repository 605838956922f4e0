package texture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Faultbox/objview/pkg/formats"
)

type fakeDecoder struct {
	files   map[string]Pixels
	broken  map[string]bool
	decodes map[string]int
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		files:   make(map[string]Pixels),
		broken:  make(map[string]bool),
		decodes: make(map[string]int),
	}
}

func (d *fakeDecoder) Exists(path string) bool {
	_, ok := d.files[path]
	return ok || d.broken[path]
}

func (d *fakeDecoder) Decode(path string) (Pixels, error) {
	d.decodes[path]++
	if d.broken[path] {
		return Pixels{}, errors.New("corrupt image")
	}
	return d.files[path], nil
}

type fakeUploader struct {
	next    Handle
	created int
	deleted []Handle
	fail    bool
}

func (u *fakeUploader) Create(px Pixels) (Handle, error) {
	if u.fail {
		return 0, errors.New("out of memory")
	}
	u.next++
	u.created++
	return u.next, nil
}

func (u *fakeUploader) Delete(h Handle) {
	u.deleted = append(u.deleted, h)
}

func solid(w, h int) Pixels {
	return Pixels{Width: w, Height: h, RGBA: make([]byte, w*h*4)}
}

func material(name, tex string) formats.Material {
	m := formats.DefaultMaterial(name)
	m.DiffuseMap = tex
	return m
}

func TestResolve(t *testing.T) {
	dec := newFakeDecoder()
	dec.files["wood.png"] = solid(2, 2)
	dec.files["metal.png"] = solid(4, 4)
	dec.broken["broken.png"] = true

	materials := []formats.Material{
		material("plain", ""),
		material("wood", "wood.png"),
		material("missing", "missing.png"),
		material("metal", "metal.png"),
		material("wood2", "wood.png"),
		material("broken", "broken.png"),
		material("broken2", "broken.png"),
	}
	up := &fakeUploader{}

	handles, errs := Resolve(materials, dec, up)

	if len(handles) != 3 {
		t.Fatalf("expected 3 textured materials, got %d: %v", len(handles), handles)
	}
	for _, i := range []int{0, 2, 5, 6} {
		if _, ok := handles[i]; ok {
			t.Errorf("material %d (%s) should have no handle", i, materials[i].Name)
		}
	}
	if handles[1] == 0 || handles[3] == 0 {
		t.Errorf("expected handles for wood and metal, got %v", handles)
	}
	if handles[1] != handles[4] {
		t.Errorf("shared texture should share handle: %d vs %d", handles[1], handles[4])
	}
	if dec.decodes["wood.png"] != 1 {
		t.Errorf("wood.png decoded %d times, want 1", dec.decodes["wood.png"])
	}
	if dec.decodes["missing.png"] != 0 {
		t.Error("missing file should not be decoded")
	}
	if dec.decodes["broken.png"] != 1 {
		t.Errorf("broken.png decoded %d times, want 1", dec.decodes["broken.png"])
	}
	if up.created != 2 {
		t.Errorf("expected 2 uploads, got %d", up.created)
	}

	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ErrMissing) {
		t.Errorf("expected ErrMissing for missing.png, got %v", errs[0])
	}

	// Material colors are untouched
	if materials[2].Diffuse != [3]float32{0.8, 0.8, 0.8} {
		t.Errorf("material colors changed: %v", materials[2].Diffuse)
	}
}

func TestResolveUploadFailure(t *testing.T) {
	dec := newFakeDecoder()
	dec.files["a.png"] = solid(1, 1)

	handles, errs := Resolve([]formats.Material{material("a", "a.png")}, dec, &fakeUploader{fail: true})
	if len(handles) != 0 {
		t.Errorf("expected no handles, got %v", handles)
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
}

func TestResolveRejectsBadPixels(t *testing.T) {
	dec := newFakeDecoder()
	dec.files["short.png"] = Pixels{Width: 2, Height: 2, RGBA: make([]byte, 4)}

	handles, errs := Resolve([]formats.Material{material("a", "short.png")}, dec, &fakeUploader{})
	if len(handles) != 0 {
		t.Errorf("expected no handles, got %v", handles)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrBadPixels) {
		t.Errorf("expected ErrBadPixels, got %v", errs)
	}
}

func TestReleaseAll(t *testing.T) {
	up := &fakeUploader{}
	ReleaseAll(map[int]Handle{0: 1, 1: 2, 2: 1, 3: 0}, up)
	if len(up.deleted) != 2 {
		t.Errorf("expected 2 distinct deletes, got %v", up.deleted)
	}
}

func TestPixelsValid(t *testing.T) {
	tests := []struct {
		px   Pixels
		want bool
	}{
		{solid(2, 3), true},
		{Pixels{}, false},
		{Pixels{Width: 1, Height: 1, RGBA: make([]byte, 3)}, false},
		{Pixels{Width: -1, Height: -1, RGBA: make([]byte, 4)}, false},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			if got := tt.px.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
