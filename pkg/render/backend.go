package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// Handle identifies a GPU buffer created by a Backend. The zero Handle is never valid.
type Handle uint32

// Backend is the graphics device used to upload and draw chunk geometry.
// All methods are called from the main goroutine only.
type Backend interface {
	// CreateVertexBuffer uploads vertices into a new buffer sized to fit them.
	CreateVertexBuffer(vertices []voxel.QuantizedVertex) Handle
	// CreateIndexBuffer uploads indices into a new buffer sized to fit them.
	CreateIndexBuffer(indices []uint32) Handle
	// UpdateVertexBuffer overwrites the start of an existing buffer. The data
	// must fit the size the buffer was created with.
	UpdateVertexBuffer(h Handle, vertices []voxel.QuantizedVertex)
	UpdateIndexBuffer(h Handle, indices []uint32)
	// SetOrigin sets the world position added to chunk-local vertices by subsequent draws.
	SetOrigin(origin mgl32.Vec3)
	Draw(vertices, indices Handle, triangleCount int)
	Release(h Handle)
}
