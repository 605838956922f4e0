package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objview/internal/engine/texture"
)

var _ texture.Uploader = TextureUploader{}

// TextureUploader creates 2D RGBA8 textures with mipmaps and repeat wrapping.
type TextureUploader struct{}

// Create uploads px and returns its texture name.
func (TextureUploader) Create(px texture.Pixels) (texture.Handle, error) {
	if !px.Valid() {
		return 0, fmt.Errorf("create texture: %w", texture.ErrBadPixels)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	defer gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(px.Width), int32(px.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px.RGBA))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, fmt.Errorf("glTexImage2D %dx%d: error 0x%x", px.Width, px.Height, code)
	}
	return texture.Handle(id), nil
}

// Delete frees the texture.
func (TextureUploader) Delete(h texture.Handle) {
	id := uint32(h)
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}
