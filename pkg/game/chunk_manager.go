package game

import (
	"sync"
	"sync/atomic"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// ChunkManager is the concurrent map of loaded chunks. Lookups are lock-free
// and may come from any goroutine; inserts and removals come from the main
// goroutine only.
type ChunkManager struct {
	chunks sync.Map // voxel.ChunkCoord -> *voxel.Chunk
	count  atomic.Int64

	// Flag to track when installed meshes or the chunk set have changed
	chunksChanged atomic.Bool
}

// NewChunkManager creates an empty chunk manager
func NewChunkManager() *ChunkManager {
	cm := &ChunkManager{}
	cm.chunksChanged.Store(true)
	return cm
}

// Load returns the chunk at coord, if loaded.
func (cm *ChunkManager) Load(coord voxel.ChunkCoord) (*voxel.Chunk, bool) {
	v, ok := cm.chunks.Load(coord)
	if !ok {
		return nil, false
	}
	return v.(*voxel.Chunk), true
}

// Has reports whether a chunk is loaded at coord.
func (cm *ChunkManager) Has(coord voxel.ChunkCoord) bool {
	_, ok := cm.chunks.Load(coord)
	return ok
}

// Store inserts or replaces the chunk at its coordinate.
func (cm *ChunkManager) Store(chunk *voxel.Chunk) {
	if _, replaced := cm.chunks.Swap(chunk.Coord(), chunk); !replaced {
		cm.count.Add(1)
	}
	cm.markChunksChanged()
}

// Delete removes the chunk at coord and returns it.
func (cm *ChunkManager) Delete(coord voxel.ChunkCoord) (*voxel.Chunk, bool) {
	v, ok := cm.chunks.LoadAndDelete(coord)
	if !ok {
		return nil, false
	}
	cm.count.Add(-1)
	cm.markChunksChanged()
	return v.(*voxel.Chunk), true
}

// Range calls fn for every loaded chunk until fn returns false.
func (cm *ChunkManager) Range(fn func(coord voxel.ChunkCoord, chunk *voxel.Chunk) bool) {
	cm.chunks.Range(func(k, v any) bool {
		return fn(k.(voxel.ChunkCoord), v.(*voxel.Chunk))
	})
}

// Len returns the number of loaded chunks.
func (cm *ChunkManager) Len() int {
	return int(cm.count.Load())
}

// GetChunks returns a slice of all loaded chunks
func (cm *ChunkManager) GetChunks() []*voxel.Chunk {
	chunks := make([]*voxel.Chunk, 0, cm.Len())
	cm.Range(func(_ voxel.ChunkCoord, chunk *voxel.Chunk) bool {
		chunks = append(chunks, chunk)
		return true
	})
	return chunks
}

// markChunksChanged sets the flag indicating chunks have changed
func (cm *ChunkManager) markChunksChanged() {
	cm.chunksChanged.Store(true)
}

// HaveChunksChanged returns true if chunks have been added, removed or
// re-meshed since the last time this method was called
func (cm *ChunkManager) HaveChunksChanged() bool {
	return cm.chunksChanged.Swap(false)
}
