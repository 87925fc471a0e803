package game

import (
	"github.com/leterax/voxelstream/pkg/voxel"
)

// BreakBlock replaces the block at pos with air. Positions outside the
// column, in unloaded chunks or already holding air are ignored.
func (w *World) BreakBlock(pos voxel.BlockPos) {
	w.edit(pos, voxel.Air)
}

// PlaceBlock puts a block of type t at pos. Positions outside the column, in
// unloaded chunks or already occupied are ignored, as is placing air.
func (w *World) PlaceBlock(pos voxel.BlockPos, t voxel.BlockType) {
	if t == voxel.Air {
		return
	}
	w.edit(pos, t)
}

func (w *World) edit(pos voxel.BlockPos, t voxel.BlockType) {
	if pos.Y < 0 || pos.Y >= voxel.Height {
		return
	}
	chunk, ok := w.chunks.Load(pos.Chunk())
	if !ok {
		return
	}

	x, y, z := pos.Local()
	occupied := chunk.Block(x, y, z).Type != voxel.Air
	if occupied == (t != voxel.Air) {
		return
	}
	chunk.SetBlock(x, y, z, t)

	op := "place"
	if t == voxel.Air {
		op = "break"
	}
	w.metrics.blockEdits.WithLabelValues(op).Inc()

	w.scheduleMesh(chunk)
	for _, n := range chunk.BoundaryNeighbors(x, z) {
		if neighbour, ok := w.chunks.Load(n); ok {
			w.scheduleMesh(neighbour)
		}
	}
}
