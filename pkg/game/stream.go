package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/voxel"
)

// distanceEpsilon absorbs float error when comparing against the render radius.
const distanceEpsilon = 1e-3

// StreamSet returns the chunk coordinates to keep loaded around a camera at
// position, ordered ring by ring outwards from the camera's chunk.
func StreamSet(position mgl32.Vec3, renderDistance int, shape StreamShape) []voxel.ChunkCoord {
	center := voxel.ChunkAt(position)
	radiusSq := float32(renderDistance*renderDistance*voxel.Width*voxel.Width) + distanceEpsilon

	keep := func(c voxel.ChunkCoord) bool {
		if shape != ShapeCircle {
			return true
		}
		cc := c.Center()
		dx, dz := cc.X()-position.X(), cc.Z()-position.Z()
		return dx*dx+dz*dz <= radiusSq
	}

	out := make([]voxel.ChunkCoord, 0, (2*renderDistance+1)*(2*renderDistance+1))
	for r := 0; r <= renderDistance; r++ {
		forRing(center, int32(r), func(c voxel.ChunkCoord) {
			if keep(c) {
				out = append(out, c)
			}
		})
	}
	return out
}

// forRing visits the chunks at Chebyshev distance r from center.
func forRing(center voxel.ChunkCoord, r int32, fn func(voxel.ChunkCoord)) {
	if r == 0 {
		fn(center)
		return
	}
	for dx := -r; dx <= r; dx++ {
		fn(center.Offset(dx, -r))
		fn(center.Offset(dx, r))
	}
	for dz := -r + 1; dz <= r-1; dz++ {
		fn(center.Offset(-r, dz))
		fn(center.Offset(r, dz))
	}
}
