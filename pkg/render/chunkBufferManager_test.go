package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// glassRow meshes a chunk holding a row of glass blocks along X plus one stone block.
func glassRow(coord voxel.ChunkCoord, n int) *voxel.MeshData {
	c := voxel.NewChunk(coord)
	for x := range n {
		c.SetBlock(x*2, 10, 8, voxel.Glass)
	}
	c.SetBlock(8, 2, 2, voxel.Stone)
	return c.GenerateMeshData(nil)
}

func TestInstallAndRelease(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 0)

	coord := voxel.ChunkCoord{X: 2, Z: -1}
	data := glassRow(coord, 3)
	m.Install(coord, data)

	assert.True(t, m.Has(coord))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 4, backend.live())
	verts, idx := m.Totals()
	assert.Equal(t, len(data.Opaque.Vertices)+len(data.Transparent.Vertices), verts)
	assert.Equal(t, len(data.Opaque.Indices)+len(data.Transparent.Indices), idx)

	// Reinstall replaces the static buffers.
	m.Install(coord, glassRow(coord, 1))
	assert.Equal(t, 4, backend.live())
	assert.Len(t, backend.released, 4)

	m.Release(coord)
	assert.False(t, m.Has(coord))
	assert.Zero(t, backend.live())
	verts, idx = m.Totals()
	assert.Zero(t, verts)
	assert.Zero(t, idx)

	m.Release(coord)
}

func TestEmptyMeshCreatesNoBuffers(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 0)

	coord := voxel.ChunkCoord{}
	m.Install(coord, voxel.NewChunk(coord).GenerateMeshData(nil))
	assert.True(t, m.Has(coord))
	assert.Zero(t, backend.created)
	assert.False(t, m.DrawOpaque(coord))
	drawn, sorted := m.DrawTransparent(coord, mgl32.Vec3{})
	assert.False(t, drawn)
	assert.False(t, sorted)
	assert.Empty(t, backend.draws)
}

func TestDrawOpaqueSetsOrigin(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 0)

	coord := voxel.ChunkCoord{X: 1, Z: 3}
	data := glassRow(coord, 1)
	m.Install(coord, data)

	require.True(t, m.DrawOpaque(coord))
	require.Len(t, backend.draws, 1)
	assert.Equal(t, coord.Origin(), backend.draws[0].origin)
	assert.Equal(t, len(data.Opaque.Indices)/3, backend.draws[0].triangles)
	assert.False(t, m.DrawOpaque(voxel.ChunkCoord{X: 9}))
}

func TestFarChunkUsesStaticTransparentBuffers(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 32)

	coord := voxel.ChunkCoord{}
	m.Install(coord, glassRow(coord, 2))
	created := backend.created

	far := coord.Center().Add(mgl32.Vec3{40, 50, 0})
	drawn, sorted := m.DrawTransparent(coord, far)
	assert.True(t, drawn)
	assert.False(t, sorted)
	assert.Equal(t, created, backend.created)
	require.Len(t, backend.draws, 1)
	assert.Equal(t, 24, backend.draws[0].triangles)
}

func TestNearChunkSortsBackToFront(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 32)

	coord := voxel.ChunkCoord{}
	data := glassRow(coord, 4)
	m.Install(coord, data)

	camera := mgl32.Vec3{-4, 10.5, 8.5}
	requireSorted(t, m, coord, camera)
	call := backend.draws[len(backend.draws)-1]
	assert.Equal(t, len(data.TransparentQuads)*2, call.triangles)

	verts := backend.vertices[call.vertices]
	indices := backend.indices[call.indices]
	require.Len(t, verts, len(data.TransparentQuads)*4)
	require.Len(t, indices, len(data.TransparentQuads)*6)
	assert.Equal(t, []uint32{0, 2, 3, 0, 3, 1, 4, 6, 7, 4, 7, 5}, indices[:12])

	prev := float32(-1)
	for q := len(verts)/4 - 1; q >= 0; q-- {
		center := voxel.QuadCenter([4]voxel.QuantizedVertex(verts[q*4 : q*4+4]))
		d := center.Sub(camera).LenSqr()
		assert.GreaterOrEqual(t, d, prev, "quad %d is nearer than a quad drawn after it", q)
		prev = d
	}
}

func TestDynamicBuffersNeverShrink(t *testing.T) {
	backend := newFakeBackend()
	m := NewChunkBufferManager(backend, 32)

	coord := voxel.ChunkCoord{}
	camera := coord.Center().Add(mgl32.Vec3{0, 12, 0})

	m.Install(coord, glassRow(coord, 4))
	requireSorted(t, m, coord, camera)
	big := backend.draws[len(backend.draws)-1]
	capacity := len(backend.vertices[big.vertices])

	// A smaller mesh reuses the existing dynamic buffers.
	m.Install(coord, glassRow(coord, 1))
	created := backend.created
	requireSorted(t, m, coord, camera)
	small := backend.draws[len(backend.draws)-1]
	assert.Equal(t, big.vertices, small.vertices)
	assert.Equal(t, big.indices, small.indices)
	assert.Equal(t, capacity, len(backend.vertices[small.vertices]))
	assert.Equal(t, 12, small.triangles)
	assert.Equal(t, created, backend.created)

	// A bigger mesh replaces them.
	m.Install(coord, glassRow(coord, 6))
	requireSorted(t, m, coord, camera)
	grown := backend.draws[len(backend.draws)-1]
	assert.NotEqual(t, big.vertices, grown.vertices)
	assert.Greater(t, len(backend.vertices[grown.vertices]), capacity)
}

func requireSorted(t *testing.T, m *ChunkBufferManager, coord voxel.ChunkCoord, camera mgl32.Vec3) {
	t.Helper()
	drawn, sorted := m.DrawTransparent(coord, camera)
	require.True(t, drawn)
	require.True(t, sorted)
}
