package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/objview/internal/assets"
)

// Texture errors.
var (
	ErrMissing     = errors.New("file not found")
	ErrBadPixels   = errors.New("pixel buffer does not match dimensions")
	ErrUnsupported = errors.New("unsupported image format")
)

// FileDecoder decodes PNG, JPEG, GIF, BMP and TGA files read through an
// asset manager.
type FileDecoder struct {
	Assets *assets.Manager
	// FlipV reverses row order so that texture coordinate V=0 addresses the
	// bottom row, as OpenGL expects.
	FlipV bool
}

// NewFileDecoder creates a decoder backed by m.
func NewFileDecoder(m *assets.Manager, flipV bool) *FileDecoder {
	return &FileDecoder{Assets: m, FlipV: flipV}
}

// Exists reports whether the file can be read.
func (d *FileDecoder) Exists(path string) bool {
	return d.Assets.Exists(path)
}

// Decode reads and decodes path.
func (d *FileDecoder) Decode(path string) (Pixels, error) {
	data, err := d.Assets.Load(path)
	if err != nil {
		if assets.IsNotFound(err) {
			return Pixels{}, fmt.Errorf("%w: %v", ErrMissing, err)
		}
		return Pixels{}, err
	}

	img, err := decodeImage(path, data)
	if err != nil {
		return Pixels{}, err
	}
	return ToPixels(img, d.FlipV), nil
}

// decodeImage picks a decoder by extension. TGA has no magic number, so
// content sniffing alone cannot recognize it.
func decodeImage(path string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tga":
		return tga.Decode(r)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	return img, nil
}

// ToPixels converts any image to tightly packed non-premultiplied RGBA.
func ToPixels(img image.Image, flipV bool) Pixels {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	px := Pixels{Width: w, Height: h, RGBA: make([]byte, w*h*4)}
	stride := w * 4
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+stride]
		dy := y
		if flipV {
			dy = h - 1 - y
		}
		copy(px.RGBA[dy*stride:(dy+1)*stride], src)
	}
	return px
}
