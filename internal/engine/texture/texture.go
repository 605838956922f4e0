// Package texture resolves material diffuse maps into GPU texture handles.
package texture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
)

// Handle is an opaque GPU texture name. 0 means no texture.
type Handle uint32

// Pixels is a decoded image: tightly packed 8-bit RGBA rows, first row first.
type Pixels struct {
	Width  int
	Height int
	RGBA   []byte
}

// Valid reports whether the buffer matches the dimensions.
func (p Pixels) Valid() bool {
	return p.Width > 0 && p.Height > 0 && len(p.RGBA) == p.Width*p.Height*4
}

// Decoder turns an image file into pixels.
type Decoder interface {
	Exists(path string) bool
	Decode(path string) (Pixels, error)
}

// Uploader owns GPU texture objects.
type Uploader interface {
	Create(px Pixels) (Handle, error)
	Delete(h Handle)
}

// Resolve decodes and uploads the diffuse map of every material that has one.
// The result maps material index to handle; materials whose texture is
// missing or fails to load are absent and render untextured. Each failure is
// logged and returned, none of them is fatal. A file shared by several
// materials is decoded and uploaded once.
func Resolve(materials []formats.Material, dec Decoder, up Uploader) (map[int]Handle, []error) {
	log := logger.Named("texture")
	handles := make(map[int]Handle)
	byPath := make(map[string]Handle)
	failed := make(map[string]bool)
	var errs []error

	for i, m := range materials {
		path := m.DiffuseMap
		if path == "" {
			continue
		}
		if h, ok := byPath[path]; ok {
			handles[i] = h
			continue
		}
		if failed[path] {
			continue
		}

		h, err := load(path, dec, up)
		if err != nil {
			failed[path] = true
			err = fmt.Errorf("material %q: %w", m.Name, err)
			errs = append(errs, err)
			log.Warn("texture unavailable, using flat color",
				zap.String("material", m.Name),
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		byPath[path] = h
		handles[i] = h
		log.Debug("texture loaded",
			zap.String("material", m.Name),
			zap.String("path", path),
			zap.Uint32("handle", uint32(h)))
	}

	return handles, errs
}

func load(path string, dec Decoder, up Uploader) (Handle, error) {
	if !dec.Exists(path) {
		return 0, fmt.Errorf("texture %s: %w", path, ErrMissing)
	}
	px, err := dec.Decode(path)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	if !px.Valid() {
		return 0, fmt.Errorf("decoding %s: %w", path, ErrBadPixels)
	}
	h, err := up.Create(px)
	if err != nil {
		return 0, fmt.Errorf("uploading %s: %w", path, err)
	}
	if h == 0 {
		return 0, fmt.Errorf("uploading %s: no handle returned", path)
	}
	return h, nil
}

// ReleaseAll deletes every distinct handle in handles.
func ReleaseAll(handles map[int]Handle, up Uploader) {
	seen := make(map[Handle]bool, len(handles))
	for _, h := range handles {
		if h == 0 || seen[h] {
			continue
		}
		seen[h] = true
		up.Delete(h)
	}
}
