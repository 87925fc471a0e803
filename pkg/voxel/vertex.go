package voxel

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexFormatVersion is stored in the top bits of every packed position word.
// Shaders reject vertices with a different version.
const VertexFormatVersion = 1

// ErrVertexVersion is returned when decoding a vertex packed with another format version.
var ErrVertexVersion = errors.New("voxel: unsupported vertex format version")

// QuantizedVertex is the GPU vertex format: two 32-bit words.
//
// Position word, least significant bit first:
//
//	bits  0-3   local block X (0-15)
//	bits  4-7   local block Z (0-15)
//	bits  8-10  corner id into CornerOffsets (0-7)
//	bits 11-18  local block Y (0-255)
//	bits 19-22  light (0-15)
//	bits 23-25  face direction (0-5)
//	bits 26-31  format version
//
// Texture word:
//
//	bits  0-11  atlas tile index
//	bits 12-13  uv corner (0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right)
type QuantizedVertex struct {
	Position uint32
	Texture  uint32
}

// VertexFields is the unpacked form of a QuantizedVertex.
type VertexFields struct {
	X, Y, Z int
	Corner  int
	Light   int
	Face    Direction
	Tile    int
	UV      int
}

// PackPosition packs the position word of a vertex.
func PackPosition(x, y, z, corner, light int, face Direction) uint32 {
	// 4 bytes, 32 bits
	// vvvvvvfffllllyyyyyyyycccczzzzxxxx
	return uint32(x&15) |
		uint32(z&15)<<4 |
		uint32(corner&7)<<8 |
		uint32(y&255)<<11 |
		uint32(light&15)<<19 |
		uint32(face&7)<<23 |
		uint32(VertexFormatVersion&63)<<26
}

// UnpackPosition reverses PackPosition. The version field is returned separately.
func UnpackPosition(p uint32) (x, y, z, corner, light int, face Direction, version int) {
	x = int(p & 15)
	z = int(p >> 4 & 15)
	corner = int(p >> 8 & 7)
	y = int(p >> 11 & 255)
	light = int(p >> 19 & 15)
	face = Direction(p >> 23 & 7)
	version = int(p >> 26 & 63)
	return
}

// PackTexture packs the texture word of a vertex.
func PackTexture(tile, uv int) uint32 {
	return uint32(tile&0xfff) | uint32(uv&3)<<12
}

// UnpackTexture reverses PackTexture.
func UnpackTexture(t uint32) (tile, uv int) {
	return int(t & 0xfff), int(t >> 12 & 3)
}

// NewQuantizedVertex packs a vertex from its fields.
func NewQuantizedVertex(f VertexFields) QuantizedVertex {
	return QuantizedVertex{
		Position: PackPosition(f.X, f.Y, f.Z, f.Corner, f.Light, f.Face),
		Texture:  PackTexture(f.Tile, f.UV),
	}
}

// Decode unpacks the vertex, failing if it was written with another format version.
func (v QuantizedVertex) Decode() (VertexFields, error) {
	var f VertexFields
	var version int
	f.X, f.Y, f.Z, f.Corner, f.Light, f.Face, version = UnpackPosition(v.Position)
	if version != VertexFormatVersion {
		return VertexFields{}, fmt.Errorf("%w: %d", ErrVertexVersion, version)
	}
	f.Tile, f.UV = UnpackTexture(v.Texture)
	return f, nil
}

// LocalCorner returns the chunk-local position of the corner this vertex sits on.
func (v QuantizedVertex) LocalCorner() mgl32.Vec3 {
	x, y, z, corner, _, _, _ := UnpackPosition(v.Position)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}.Add(CornerOffsets[corner])
}
