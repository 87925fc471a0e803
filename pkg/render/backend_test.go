package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/voxel"
)

type drawCall struct {
	origin            mgl32.Vec3
	vertices, indices Handle
	triangles         int
}

// fakeBackend keeps buffer contents in memory and records draws.
type fakeBackend struct {
	next     Handle
	vertices map[Handle][]voxel.QuantizedVertex
	indices  map[Handle][]uint32
	created  int
	released []Handle
	updates  int
	origin   mgl32.Vec3
	draws    []drawCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		vertices: make(map[Handle][]voxel.QuantizedVertex),
		indices:  make(map[Handle][]uint32),
	}
}

func (b *fakeBackend) CreateVertexBuffer(v []voxel.QuantizedVertex) Handle {
	b.next++
	b.created++
	b.vertices[b.next] = append([]voxel.QuantizedVertex(nil), v...)
	return b.next
}

func (b *fakeBackend) CreateIndexBuffer(i []uint32) Handle {
	b.next++
	b.created++
	b.indices[b.next] = append([]uint32(nil), i...)
	return b.next
}

func (b *fakeBackend) UpdateVertexBuffer(h Handle, v []voxel.QuantizedVertex) {
	buf := b.vertices[h]
	if len(v) > len(buf) {
		panic("vertex update overflows buffer")
	}
	copy(buf, v)
	b.updates++
}

func (b *fakeBackend) UpdateIndexBuffer(h Handle, i []uint32) {
	buf := b.indices[h]
	if len(i) > len(buf) {
		panic("index update overflows buffer")
	}
	copy(buf, i)
	b.updates++
}

func (b *fakeBackend) SetOrigin(origin mgl32.Vec3) {
	b.origin = origin
}

func (b *fakeBackend) Draw(vertices, indices Handle, triangles int) {
	b.draws = append(b.draws, drawCall{origin: b.origin, vertices: vertices, indices: indices, triangles: triangles})
}

func (b *fakeBackend) Release(h Handle) {
	delete(b.vertices, h)
	delete(b.indices, h)
	b.released = append(b.released, h)
}

func (b *fakeBackend) live() int {
	return len(b.vertices) + len(b.indices)
}
