package openglhelper

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Overlay draws an image as a screen-space panel on top of the scene.
type Overlay struct {
	shader  *Shader
	vao     *VertexArrayObject
	texture *Texture
	size    image.Point
}

// NewOverlay compiles the overlay shader. Nothing is drawn until SetImage is called.
func NewOverlay() (*Overlay, error) {
	shader, err := NewShader(overlayVertexSource, overlayFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay shader: %w", err)
	}
	return &Overlay{
		shader: shader,
		vao:    NewVAO(),
	}, nil
}

// SetImage replaces the panel contents.
func (o *Overlay) SetImage(img *image.NRGBA) {
	if o.texture == nil {
		o.texture = NewTexture(img, false)
	} else {
		o.texture.Upload(img, false)
	}
	o.size = img.Bounds().Size()
}

// Draw renders the panel with its top-left corner at pos, in framebuffer pixels.
func (o *Overlay) Draw(pos mgl32.Vec2, screenWidth, screenHeight int) {
	if o.texture == nil {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	o.shader.Use()
	o.shader.SetVec2("panelPos", pos)
	o.shader.SetVec2("panelSize", mgl32.Vec2{float32(o.size.X), float32(o.size.Y)})
	o.shader.SetVec2("screenSize", mgl32.Vec2{float32(screenWidth), float32(screenHeight)})
	o.texture.Bind(0)
	o.shader.SetInt("panel", 0)

	o.vao.Bind()
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	o.vao.Unbind()

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Delete releases the overlay's GPU resources
func (o *Overlay) Delete() {
	if o.texture != nil {
		o.texture.Delete()
	}
	o.vao.Delete()
	o.shader.Delete()
}
