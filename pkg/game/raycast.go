package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// Raycast walks the block grid from origin along dir and returns the first
// solid block within maxDist, plus the empty block the ray passed through
// just before it (where a placed block would go). Water and unloaded chunks
// are passed through.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32) (hit, before voxel.BlockPos, ok bool) {
	if dir.Len() == 0 {
		return hit, before, false
	}
	dir = dir.Normalize()

	pos := voxel.BlockPosAt(origin)
	cell := [3]int{pos.X, pos.Y, pos.Z}

	var step [3]int
	var tMax, tDelta [3]float32
	for i := range 3 {
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (float32(cell[i]+1) - origin[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (origin[i] - float32(cell[i])) / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = math.MaxFloat32
			tDelta[i] = math.MaxFloat32
		}
	}

	before = pos
	for t := float32(0); t <= maxDist; {
		current := voxel.BlockPos{X: cell[0], Y: cell[1], Z: cell[2]}
		if b, loaded := w.BlockAt(current.X, current.Y, current.Z); loaded && !b.IsAir() && b.Type != voxel.Water {
			return current, before, true
		}
		before = current

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return hit, before, false
}
