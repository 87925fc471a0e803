package voxel

import (
	"sync"
	"sync/atomic"
)

// Chunk is a Width x Height x Width column of blocks.
//
// Blocks are guarded by a read/write lock: mesh jobs on worker goroutines read
// under the read lock while edits on the main goroutine take the write lock.
type Chunk struct {
	coord ChunkCoord

	mu               sync.RWMutex
	blocks           []Block
	blockCount       int
	terrainGenerated bool

	// meshVersion is bumped every time a mesh job is scheduled for this chunk.
	meshVersion atomic.Uint64
	// installedVersion is the version of the mesh currently installed. Main goroutine only.
	installedVersion uint64
}

// NewChunk creates an empty (all air) chunk at the given chunk coordinate
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		coord:  coord,
		blocks: make([]Block, Volume),
	}
}

// Coord returns the chunk's position on the chunk grid.
func (c *Chunk) Coord() ChunkCoord {
	return c.coord
}

// BlockCount returns the number of non-air blocks.
func (c *Chunk) BlockCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blockCount
}

// TerrainGenerated reports whether GenerateTerrain has run.
func (c *Chunk) TerrainGenerated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.terrainGenerated
}

// Block returns the block at the given local coordinates. Out-of-range
// coordinates return air.
func (c *Chunk) Block(x, y, z int) Block {
	if !InChunk(x, y, z) {
		return Block{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[LocalToIndex(x, y, z)]
}

// SetBlock replaces the block at the given local coordinates and returns the
// previous block type. The new block starts with its type's default flags.
func (c *Chunk) SetBlock(x, y, z int, t BlockType) BlockType {
	if !InChunk(x, y, z) {
		return Air
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := LocalToIndex(x, y, z)
	prev := c.blocks[i].Type
	if prev == Air && t != Air {
		c.blockCount++
	} else if prev != Air && t == Air {
		c.blockCount--
	}
	c.blocks[i] = NewBlock(t)
	return prev
}

// GenerateTerrain fills the chunk from the terrain rules. Only the first call
// has any effect. It touches no other chunk and is safe to call from any goroutine.
func (c *Chunk) GenerateTerrain(t *Terrain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terrainGenerated {
		return
	}

	ox, oz := int(c.coord.X)*Width, int(c.coord.Z)*Width
	count := 0
	for z := range Width {
		for x := range Width {
			surface := t.SurfaceHeight(ox+x, oz+z)
			sand := t.SandPatch(ox+x, oz+z)
			for y := range Height {
				bt := t.BlockAt(y, surface, sand)
				c.blocks[LocalToIndex(x, y, z)] = NewBlock(bt)
				if bt != Air {
					count++
				}
			}
		}
	}
	c.blockCount = count
	c.terrainGenerated = true
}

// NextMeshVersion reserves a new mesh version. Results of older versions are stale.
func (c *Chunk) NextMeshVersion() uint64 {
	return c.meshVersion.Add(1)
}

// MeshVersion returns the most recently reserved mesh version.
func (c *Chunk) MeshVersion() uint64 {
	return c.meshVersion.Load()
}

// InstalledVersion returns the version of the mesh last passed to InstallMesh.
func (c *Chunk) InstalledVersion() uint64 {
	return c.installedVersion
}

// InstallMesh records which faces the mesh emitted for every block and marks
// the mesh version as installed.
func (c *Chunk) InstallMesh(version uint64, data *MeshData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.installedVersion = version
	if data.FaceMasks == nil {
		return
	}
	for i, mask := range data.FaceMasks {
		if c.blocks[i].Type != Air {
			c.blocks[i] = c.blocks[i].withFaces(mask)
		}
	}
}

// BoundaryNeighbors returns the lateral neighbour chunks whose shared face is
// touched by the block at local x, z.
func (c *Chunk) BoundaryNeighbors(x, z int) []ChunkCoord {
	var out []ChunkCoord
	if x == 0 {
		out = append(out, c.coord.Offset(-1, 0))
	}
	if x == Width-1 {
		out = append(out, c.coord.Offset(1, 0))
	}
	if z == 0 {
		out = append(out, c.coord.Offset(0, -1))
	}
	if z == Width-1 {
		out = append(out, c.coord.Offset(0, 1))
	}
	return out
}
