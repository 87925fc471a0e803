package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizedVertexRoundTrip(t *testing.T) {
	cases := []VertexFields{
		{},
		{X: 15, Y: 127, Z: 15, Corner: 7, Light: 15, Face: Down, Tile: 4095, UV: 3},
		{X: 3, Y: 64, Z: 9, Corner: 5, Light: 12, Face: West, Tile: 205, UV: 1},
	}
	for _, f := range cases {
		got, err := NewQuantizedVertex(f).Decode()
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestQuantizedVertexExhaustivePosition(t *testing.T) {
	for x := range Width {
		for z := range Width {
			for y := 0; y < Height; y += 7 {
				for corner := range 8 {
					p := PackPosition(x, y, z, corner, corner*2, Direction(corner%directionCount))
					gx, gy, gz, gc, gl, gf, version := UnpackPosition(p)
					assert.Equal(t, []int{x, y, z, corner, corner * 2, corner % directionCount, VertexFormatVersion},
						[]int{gx, gy, gz, gc, gl, int(gf), version})
				}
			}
		}
	}
}

func TestQuantizedVertexRejectsOtherVersion(t *testing.T) {
	v := NewQuantizedVertex(VertexFields{X: 1})
	v.Position = v.Position&^(63<<26) | 2<<26

	_, err := v.Decode()
	assert.ErrorIs(t, err, ErrVertexVersion)
}

func TestLocalCorner(t *testing.T) {
	v := NewQuantizedVertex(VertexFields{X: 2, Y: 10, Z: 3, Corner: 5})
	assert.Equal(t, mgl32.Vec3{3, 11, 4}, v.LocalCorner())
}
