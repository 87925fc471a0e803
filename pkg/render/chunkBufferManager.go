// Package render draws streamed voxel chunks. It owns the per-chunk GPU
// buffers, culls chunks against the camera frustum and depth sorts the
// transparent faces of nearby chunks every frame.
package render

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// chunkBuffers holds the GPU resources of one installed chunk mesh.
type chunkBuffers struct {
	center mgl32.Vec3

	opaqueVB, opaqueIB Handle
	opaqueTriangles    int

	transparentVB, transparentIB Handle
	transparentTriangles         int
	quads                        []voxel.TransparentQuad

	// Scratch space for per-frame sorting. It only ever grows.
	order          []int
	distances      []float32
	sortedVertices []voxel.QuantizedVertex
	sortedIndices  []uint32

	// Dynamic buffers receive the sorted geometry. They grow but never shrink.
	dynamicVB, dynamicIB Handle
	dynamicVertexCap     int
	dynamicIndexCap      int

	vertexCount, indexCount int
}

// ChunkBufferManager is responsible for managing GPU buffers for voxel chunks.
// It uploads installed meshes through a Backend and issues the opaque and
// transparent draws. It must only be used from the main goroutine.
type ChunkBufferManager struct {
	backend        Backend
	sortDistanceSq float32
	chunks         map[voxel.ChunkCoord]*chunkBuffers

	totalVertices int
	totalIndices  int
}

// NewChunkBufferManager creates a manager drawing through backend.
// Chunks within sortDistance blocks (planar) of the camera get their
// transparent faces sorted back to front every frame.
func NewChunkBufferManager(backend Backend, sortDistance float32) *ChunkBufferManager {
	if sortDistance <= 0 {
		sortDistance = DefaultSortDistance
	}
	return &ChunkBufferManager{
		backend:        backend,
		sortDistanceSq: sortDistance * sortDistance,
		chunks:         make(map[voxel.ChunkCoord]*chunkBuffers),
	}
}

// Install uploads a chunk mesh, replacing the previous mesh of that chunk.
func (m *ChunkBufferManager) Install(coord voxel.ChunkCoord, data *voxel.MeshData) {
	cb, exists := m.chunks[coord]
	if exists {
		m.releaseStatic(cb)
	} else {
		cb = &chunkBuffers{center: coord.Center()}
		m.chunks[coord] = cb
	}

	if len(data.Opaque.Vertices) > 0 {
		cb.opaqueVB = m.backend.CreateVertexBuffer(data.Opaque.Vertices)
		cb.opaqueIB = m.backend.CreateIndexBuffer(data.Opaque.Indices)
		cb.opaqueTriangles = len(data.Opaque.Indices) / 3
	}
	if len(data.Transparent.Vertices) > 0 {
		cb.transparentVB = m.backend.CreateVertexBuffer(data.Transparent.Vertices)
		cb.transparentIB = m.backend.CreateIndexBuffer(data.Transparent.Indices)
		cb.transparentTriangles = len(data.Transparent.Indices) / 3
	}
	cb.quads = data.TransparentQuads

	cb.vertexCount = len(data.Opaque.Vertices) + len(data.Transparent.Vertices)
	cb.indexCount = len(data.Opaque.Indices) + len(data.Transparent.Indices)
	m.totalVertices += cb.vertexCount
	m.totalIndices += cb.indexCount
}

// Release frees every buffer held for the chunk. Unknown chunks are ignored.
func (m *ChunkBufferManager) Release(coord voxel.ChunkCoord) {
	cb, exists := m.chunks[coord]
	if !exists {
		return
	}
	m.releaseStatic(cb)
	m.release(&cb.dynamicVB)
	m.release(&cb.dynamicIB)
	delete(m.chunks, coord)
}

func (m *ChunkBufferManager) releaseStatic(cb *chunkBuffers) {
	m.release(&cb.opaqueVB)
	m.release(&cb.opaqueIB)
	m.release(&cb.transparentVB)
	m.release(&cb.transparentIB)
	cb.opaqueTriangles = 0
	cb.transparentTriangles = 0
	cb.quads = nil

	m.totalVertices -= cb.vertexCount
	m.totalIndices -= cb.indexCount
	cb.vertexCount, cb.indexCount = 0, 0
}

func (m *ChunkBufferManager) release(h *Handle) {
	if *h != 0 {
		m.backend.Release(*h)
		*h = 0
	}
}

// Has reports whether a mesh is installed for the chunk.
func (m *ChunkBufferManager) Has(coord voxel.ChunkCoord) bool {
	_, ok := m.chunks[coord]
	return ok
}

// Len returns the number of chunks with installed meshes.
func (m *ChunkBufferManager) Len() int {
	return len(m.chunks)
}

// Totals returns the number of vertices and indices across all installed meshes.
func (m *ChunkBufferManager) Totals() (vertices, indices int) {
	return m.totalVertices, m.totalIndices
}

// DrawOpaque draws the chunk's opaque geometry. It returns false when there
// is nothing to draw.
func (m *ChunkBufferManager) DrawOpaque(coord voxel.ChunkCoord) bool {
	cb, ok := m.chunks[coord]
	if !ok || cb.opaqueTriangles == 0 {
		return false
	}
	m.backend.SetOrigin(coord.Origin())
	m.backend.Draw(cb.opaqueVB, cb.opaqueIB, cb.opaqueTriangles)
	return true
}

// DrawTransparent draws the chunk's transparent geometry. Chunks within the
// sort distance of camera are drawn from freshly sorted dynamic buffers,
// farther chunks from their static buffers. drawn is false when there is
// nothing to draw; sorted reports whether the dynamic buffers were used.
func (m *ChunkBufferManager) DrawTransparent(coord voxel.ChunkCoord, camera mgl32.Vec3) (drawn, sorted bool) {
	cb, ok := m.chunks[coord]
	if !ok || cb.transparentTriangles == 0 {
		return false, false
	}
	m.backend.SetOrigin(coord.Origin())

	dx, dz := camera.X()-cb.center.X(), camera.Z()-cb.center.Z()
	if dx*dx+dz*dz > m.sortDistanceSq {
		m.backend.Draw(cb.transparentVB, cb.transparentIB, cb.transparentTriangles)
		return true, false
	}

	m.sortQuads(cb, camera)
	m.uploadSorted(cb)
	m.backend.Draw(cb.dynamicVB, cb.dynamicIB, len(cb.sortedIndices)/3)
	return true, true
}

// sortQuads rebuilds the chunk's sorted vertex and index arrays with the
// quads ordered farthest first.
func (m *ChunkBufferManager) sortQuads(cb *chunkBuffers, camera mgl32.Vec3) {
	cb.order = cb.order[:0]
	cb.distances = cb.distances[:0]
	for i, q := range cb.quads {
		cb.order = append(cb.order, i)
		cb.distances = append(cb.distances, q.Center.Sub(camera).LenSqr())
	}
	slices.SortStableFunc(cb.order, func(a, b int) int {
		return cmp.Compare(cb.distances[b], cb.distances[a])
	})

	cb.sortedVertices = cb.sortedVertices[:0]
	cb.sortedIndices = cb.sortedIndices[:0]
	for k, i := range cb.order {
		cb.sortedVertices = append(cb.sortedVertices, cb.quads[i].Vertices[:]...)
		base := uint32(k * 4)
		for _, idx := range voxel.QuadIndices {
			cb.sortedIndices = append(cb.sortedIndices, base+idx)
		}
	}
}

// uploadSorted writes the sorted arrays into the dynamic buffers, replacing
// a buffer only when it is too small.
func (m *ChunkBufferManager) uploadSorted(cb *chunkBuffers) {
	if len(cb.sortedVertices) > cb.dynamicVertexCap {
		m.release(&cb.dynamicVB)
		cb.dynamicVB = m.backend.CreateVertexBuffer(cb.sortedVertices)
		cb.dynamicVertexCap = len(cb.sortedVertices)
	} else {
		m.backend.UpdateVertexBuffer(cb.dynamicVB, cb.sortedVertices)
	}

	if len(cb.sortedIndices) > cb.dynamicIndexCap {
		m.release(&cb.dynamicIB)
		cb.dynamicIB = m.backend.CreateIndexBuffer(cb.sortedIndices)
		cb.dynamicIndexCap = len(cb.sortedIndices)
	} else {
		m.backend.UpdateIndexBuffer(cb.dynamicIB, cb.sortedIndices)
	}
}

// Cleanup releases all resources used by the ChunkBufferManager.
// This should be called when the ChunkBufferManager is no longer needed,
// typically during application shutdown.
func (m *ChunkBufferManager) Cleanup() {
	for coord := range m.chunks {
		m.Release(coord)
	}
}
