package game

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/render"
	"github.com/leterax/voxelstream/pkg/voxel"
)

// ChunkDrawer issues the draw calls for installed chunk meshes.
type ChunkDrawer interface {
	DrawOpaque(coord voxel.ChunkCoord) bool
	// DrawTransparent reports whether anything was drawn and whether the
	// chunk's faces were depth sorted for this frame.
	DrawTransparent(coord voxel.ChunkCoord, camera mgl32.Vec3) (drawn, sorted bool)
}

// DrawStats summarises one Draw call.
type DrawStats struct {
	Loaded      int
	Visible     int
	Culled      int
	Opaque      int
	Transparent int
	// Sorted counts the transparent draws that were depth sorted.
	Sorted int
}

// Draw draws every loaded chunk whose bounds intersect the view frustum:
// opaque geometry first, then transparent geometry from the farthest chunk
// to the nearest.
func (w *World) Draw(view View, drawer ChunkDrawer) DrawStats {
	frustum := render.NewFrustum(view.ProjectionMatrix().Mul4(view.ViewMatrix()))
	camera := view.Position()

	var stats DrawStats
	w.visible = w.visible[:0]
	w.chunks.Range(func(coord voxel.ChunkCoord, _ *voxel.Chunk) bool {
		stats.Loaded++
		min, max := coord.Bounds()
		if frustum.IntersectsAABB(min, max) {
			w.visible = append(w.visible, coord)
		} else {
			stats.Culled++
		}
		return true
	})
	stats.Visible = len(w.visible)

	planarDistSq := func(c voxel.ChunkCoord) float32 {
		cc := c.Center()
		dx, dz := cc.X()-camera.X(), cc.Z()-camera.Z()
		return dx*dx + dz*dz
	}
	slices.SortFunc(w.visible, func(a, b voxel.ChunkCoord) int {
		return cmp.Compare(planarDistSq(b), planarDistSq(a))
	})

	for _, coord := range w.visible {
		if drawer.DrawOpaque(coord) {
			stats.Opaque++
		}
	}
	for _, coord := range w.visible {
		drawn, sorted := drawer.DrawTransparent(coord, camera)
		if drawn {
			stats.Transparent++
		}
		if sorted {
			stats.Sorted++
		}
	}
	return stats
}
