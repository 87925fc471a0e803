package openglhelper

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/render"
	"github.com/leterax/voxelstream/pkg/voxel"
)

// ChunkBackend draws quantized chunk meshes with OpenGL. It implements
// render.Backend and must only be used on the thread owning the GL context.
type ChunkBackend struct {
	shader *Shader
	vao    *VertexArrayObject
	atlas  *Texture

	buffers map[render.Handle]*BufferObject
	next    render.Handle

	fogColor mgl32.Vec3
	fogEnd   float32
}

var _ render.Backend = (*ChunkBackend)(nil)

// NewChunkBackend compiles the chunk shader and uploads the block atlas.
// Fog fades geometry into fogColor towards fogEnd blocks from the camera.
func NewChunkBackend(fogColor mgl32.Vec3, fogEnd float32) (*ChunkBackend, error) {
	shader, err := NewChunkShader()
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk shader: %w", err)
	}

	return &ChunkBackend{
		shader:   shader,
		vao:      NewVAO(),
		atlas:    NewTexture(render.BuildAtlas(), true),
		buffers:  make(map[render.Handle]*BufferObject),
		fogColor: fogColor,
		fogEnd:   fogEnd,
	}, nil
}

func (b *ChunkBackend) add(bo *BufferObject) render.Handle {
	b.next++
	b.buffers[b.next] = bo
	return b.next
}

// CreateVertexBuffer implements render.Backend.
func (b *ChunkBackend) CreateVertexBuffer(vertices []voxel.QuantizedVertex) render.Handle {
	return b.add(NewVertexBuffer(vertices, DynamicDraw))
}

// CreateIndexBuffer implements render.Backend.
func (b *ChunkBackend) CreateIndexBuffer(indices []uint32) render.Handle {
	return b.add(NewIndexBuffer(indices, DynamicDraw))
}

// UpdateVertexBuffer implements render.Backend.
func (b *ChunkBackend) UpdateVertexBuffer(h render.Handle, vertices []voxel.QuantizedVertex) {
	if bo, ok := b.buffers[h]; ok {
		bo.UpdateSubData(0, len(vertices)*vertexSize, slicePtr(vertices))
	}
}

// UpdateIndexBuffer implements render.Backend.
func (b *ChunkBackend) UpdateIndexBuffer(h render.Handle, indices []uint32) {
	if bo, ok := b.buffers[h]; ok {
		bo.UpdateSubData(0, len(indices)*4, slicePtr(indices))
	}
}

// Begin prepares the pipeline for a pass. The opaque pass writes depth; the
// transparent pass blends and leaves the depth buffer untouched.
func (b *ChunkBackend) Begin(view, projection mgl32.Mat4, transparent bool) {
	b.shader.Use()
	b.shader.SetMat4("view", view)
	b.shader.SetMat4("projection", projection)
	b.shader.SetUint("vertexVersion", voxel.VertexFormatVersion)
	b.shader.SetUint("atlasTiles", render.AtlasTiles)
	b.shader.SetVec3("fogColor", b.fogColor)
	b.shader.SetFloat("fogStart", b.fogEnd*0.6)
	b.shader.SetFloat("fogEnd", b.fogEnd)

	b.atlas.Bind(0)
	b.shader.SetInt("atlas", 0)
	b.vao.Bind()

	if transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

// End restores the default pipeline state.
func (b *ChunkBackend) End() {
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	b.vao.Unbind()
}

// SetOrigin implements render.Backend.
func (b *ChunkBackend) SetOrigin(origin mgl32.Vec3) {
	b.shader.SetVec3("chunkOrigin", origin)
}

// Draw implements render.Backend.
func (b *ChunkBackend) Draw(vertices, indices render.Handle, triangleCount int) {
	vbo, ok := b.buffers[vertices]
	if !ok {
		return
	}
	ebo, ok := b.buffers[indices]
	if !ok {
		return
	}

	vbo.Bind()
	stride := int32(vertexSize)
	b.vao.SetVertexAttribIPointer(0, 1, gl.UNSIGNED_INT, stride, int(unsafe.Offsetof(voxel.QuantizedVertex{}.Position)))
	b.vao.SetVertexAttribIPointer(1, 1, gl.UNSIGNED_INT, stride, int(unsafe.Offsetof(voxel.QuantizedVertex{}.Texture)))
	ebo.Bind()

	gl.DrawElements(gl.TRIANGLES, int32(triangleCount*3), gl.UNSIGNED_INT, nil)
}

// Release implements render.Backend.
func (b *ChunkBackend) Release(h render.Handle) {
	if bo, ok := b.buffers[h]; ok {
		bo.Delete()
		delete(b.buffers, h)
	}
}

// Buffers returns the number of live GPU buffers.
func (b *ChunkBackend) Buffers() int {
	return len(b.buffers)
}

// Delete releases every buffer along with the shader, atlas and vertex array.
func (b *ChunkBackend) Delete() {
	for h, bo := range b.buffers {
		bo.Delete()
		delete(b.buffers, h)
	}
	b.atlas.Delete()
	b.vao.Delete()
	b.shader.Delete()
}
