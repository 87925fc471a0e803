package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Width is the horizontal size of a chunk along X and Z.
	Width = 16
	// Height is the vertical size of a chunk. Chunks span the full column.
	Height = 8 * 16
	// Volume is the number of blocks in a chunk.
	Volume = Width * Height * Width
)

// ChunkCoord is the position of a chunk on the horizontal chunk grid
type ChunkCoord struct {
	X, Z int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Z)
}

// Origin returns the world position of the chunk's minimum corner.
func (c ChunkCoord) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * Width), 0, float32(c.Z * Width)}
}

// Center returns the world position of the chunk's horizontal center at y = 0.
func (c ChunkCoord) Center() mgl32.Vec3 {
	return c.Origin().Add(mgl32.Vec3{Width / 2, 0, Width / 2})
}

// Bounds returns the world-space bounding box of the chunk.
func (c ChunkCoord) Bounds() (min, max mgl32.Vec3) {
	min = c.Origin()
	max = min.Add(mgl32.Vec3{Width, Height, Width})
	return min, max
}

// Offset returns the chunk coordinate dx, dz chunks away.
func (c ChunkCoord) Offset(dx, dz int32) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Z: c.Z + dz}
}

// LateralNeighbors returns the four chunks sharing a face with c, in
// West, East, North, South order.
func (c ChunkCoord) LateralNeighbors() [4]ChunkCoord {
	return [4]ChunkCoord{c.Offset(-1, 0), c.Offset(1, 0), c.Offset(0, -1), c.Offset(0, 1)}
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// WorldToChunkCoord converts a world block position to the coordinate of the chunk containing it
func WorldToChunkCoord(worldX, worldZ int) ChunkCoord {
	return ChunkCoord{
		X: int32(floorDiv(worldX, Width)),
		Z: int32(floorDiv(worldZ, Width)),
	}
}

// WorldToLocalCoord converts a world position to local coordinates within its chunk
func WorldToLocalCoord(worldX, worldZ int) (int, int) {
	localX := worldX % Width
	localZ := worldZ % Width

	// Handle negative coordinates properly
	if localX < 0 {
		localX += Width
	}
	if localZ < 0 {
		localZ += Width
	}
	return localX, localZ
}

// ChunkAt returns the coordinate of the chunk containing the world-space point p.
func ChunkAt(p mgl32.Vec3) ChunkCoord {
	return WorldToChunkCoord(floorInt(p.X()), floorInt(p.Z()))
}

func floorInt(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}

// BlockPos is an integer world block position.
type BlockPos struct {
	X, Y, Z int
}

// BlockPosAt returns the block containing the world-space point p.
func BlockPosAt(p mgl32.Vec3) BlockPos {
	return BlockPos{X: floorInt(p.X()), Y: floorInt(p.Y()), Z: floorInt(p.Z())}
}

// Chunk returns the coordinate of the chunk containing the block.
func (p BlockPos) Chunk() ChunkCoord {
	return WorldToChunkCoord(p.X, p.Z)
}

// Local returns the block's position inside its chunk.
func (p BlockPos) Local() (x, y, z int) {
	x, z = WorldToLocalCoord(p.X, p.Z)
	return x, p.Y, z
}

// Add returns the position offset by one step in direction d.
func (p BlockPos) Add(d Direction) BlockPos {
	o := d.Offset()
	return BlockPos{X: p.X + o[0], Y: p.Y + o[1], Z: p.Z + o[2]}
}

// LocalToIndex converts local block coordinates to an index in a chunk's flat block array
func LocalToIndex(x, y, z int) int {
	return x + y*Width + z*Width*Height
}

// IndexToLocal converts a flat array index back to local coordinates
func IndexToLocal(index int) (x, y, z int) {
	return XFromIndex(index), YFromIndex(index), ZFromIndex(index)
}

// XFromIndex returns the local X coordinate of a flat index.
func XFromIndex(index int) int { return index % Width }

// YFromIndex returns the local Y coordinate of a flat index.
func YFromIndex(index int) int { return (index / Width) % Height }

// ZFromIndex returns the local Z coordinate of a flat index.
func ZFromIndex(index int) int { return index / (Width * Height) }

// InChunk reports whether local coordinates lie inside a chunk.
func InChunk(x, y, z int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height && z >= 0 && z < Width
}
