package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum is a view volume described by six inward-facing planes.
// Each plane is (a, b, c, d) with a point p inside when a*x + b*y + c*z + d >= 0.
type Frustum struct {
	planes [6]mgl32.Vec4
}

// NewFrustum extracts the clip planes from a combined projection * view matrix.
func NewFrustum(viewProjection mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProjection.Row(0), viewProjection.Row(1), viewProjection.Row(2), viewProjection.Row(3)

	f := Frustum{planes: [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}}
	for i, p := range f.planes {
		if l := p.Vec3().Len(); l > 0 {
			f.planes[i] = p.Mul(1 / l)
		}
	}
	return f
}

// IntersectsAABB reports whether any part of the box lies inside the frustum.
func (f Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for _, p := range f.planes {
		// Test the corner furthest along the plane normal.
		corner := min
		if p.X() >= 0 {
			corner[0] = max.X()
		}
		if p.Y() >= 0 {
			corner[1] = max.Y()
		}
		if p.Z() >= 0 {
			corner[2] = max.Z()
		}
		if p.Vec3().Dot(corner)+p.W() < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside the frustum.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	return f.IntersectsAABB(p, p)
}
