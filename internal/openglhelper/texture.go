package openglhelper

import (
	"image"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Texture is a 2D OpenGL texture
type Texture struct {
	ID uint32
}

// NewTexture uploads an image as a nearest-filtered RGBA texture, with
// mipmaps when mipmap is set.
func NewTexture(img *image.NRGBA, mipmap bool) *Texture {
	var id uint32
	gl.GenTextures(1, &id)
	t := &Texture{ID: id}
	t.Upload(img, mipmap)
	return t
}

// Upload replaces the texture contents and size.
func (t *Texture) Upload(img *image.NRGBA, mipmap bool) {
	gl.BindTexture(gl.TEXTURE_2D, t.ID)

	minFilter := int32(gl.NEAREST)
	if mipmap {
		minFilter = gl.NEAREST_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	size := img.Bounds().Size()
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	if mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
}

// Bind binds the texture to the given texture unit
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete releases the texture
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.ID)
}
