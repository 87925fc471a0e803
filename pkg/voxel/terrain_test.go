package voxel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constNoise float32

func (n constNoise) Sample(x, z float32) float32 { return float32(n) }

// waveNoise is a cheap deterministic field in [-1, 1].
type waveNoise struct{}

func (waveNoise) Sample(x, z float32) float32 {
	return float32(math.Sin(float64(x)*0.07) * math.Cos(float64(z)*0.05))
}

func TestScaleNoise(t *testing.T) {
	assert.InDelta(t, 0.25, ScaleNoise(-1, 0.25, 0.75), 1e-6)
	assert.InDelta(t, 0.5, ScaleNoise(0, 0.25, 0.75), 1e-6)
	assert.InDelta(t, 0.75, ScaleNoise(1, 0.25, 0.75), 1e-6)
	assert.InDelta(t, 0.75, ScaleNoise(3, 0.25, 0.75), 1e-6)
}

func TestSurfaceHeightBounds(t *testing.T) {
	for _, n := range []NoiseSource{constNoise(-1), constNoise(1), constNoise(-40), constNoise(40), waveNoise{}} {
		terrain := NewTerrain(n)
		for x := -64; x < 64; x += 3 {
			for z := -64; z < 64; z += 5 {
				h := terrain.SurfaceHeight(x, z)
				assert.GreaterOrEqual(t, h, 1)
				assert.LessOrEqual(t, h, Height-1)
			}
		}
	}

	assert.Equal(t, Height-1, terrainWithRange(constNoise(1), -1, 2).SurfaceHeight(0, 0))
	assert.Equal(t, 1, terrainWithRange(constNoise(-1), -1, 2).SurfaceHeight(0, 0))
}

func terrainWithRange(n NoiseSource, minHeight, maxHeight float32) *Terrain {
	terrain := NewTerrain(n)
	terrain.MinHeight, terrain.MaxHeight = minHeight, maxHeight
	return terrain
}

func TestGenerateTerrainFlatColumn(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.GenerateTerrain(NewTerrain(constNoise(0)))
	require.True(t, c.TerrainGenerated())

	surface := Height / 2
	for _, col := range [][2]int{{0, 0}, {7, 9}, {15, 15}} {
		x, z := col[0], col[1]
		assert.Equal(t, Bedrock, c.Block(x, 0, z).Type)
		assert.Equal(t, Grass, c.Block(x, surface, z).Type)
		assert.Equal(t, Dirt, c.Block(x, surface-1, z).Type)
		assert.Equal(t, Dirt, c.Block(x, surface-2, z).Type)
		assert.Equal(t, Stone, c.Block(x, surface-3, z).Type)
		assert.Equal(t, Stone, c.Block(x, 1, z).Type)
		assert.Equal(t, Air, c.Block(x, surface+1, z).Type)
	}
	assert.Equal(t, Width*Width*(surface+1), c.BlockCount())
}

func TestGenerateTerrainUnderwater(t *testing.T) {
	c := NewChunk(ChunkCoord{X: 3, Z: -2})
	terrain := NewTerrain(constNoise(-1))
	c.GenerateTerrain(terrain)

	surface := terrain.SurfaceHeight(0, 0)
	require.Less(t, surface, terrain.SeaLevel)

	assert.Equal(t, Dirt, c.Block(4, surface, 4).Type)
	assert.Equal(t, Water, c.Block(4, surface+1, 4).Type)
	assert.Equal(t, Water, c.Block(4, terrain.SeaLevel, 4).Type)
	assert.Equal(t, Air, c.Block(4, terrain.SeaLevel+1, 4).Type)
	assert.Equal(t, Width*Width*(terrain.SeaLevel+1), c.BlockCount())
}

func TestBlockAtSandRules(t *testing.T) {
	terrain := NewTerrain(constNoise(0))
	surface := terrain.SeaLevel - 4

	assert.Equal(t, Sand, terrain.BlockAt(surface, surface, true))
	assert.Equal(t, Sand, terrain.BlockAt(surface-2, surface, true))
	assert.Equal(t, Stone, terrain.BlockAt(surface-3, surface, true))
	assert.Equal(t, Bedrock, terrain.BlockAt(0, surface, true))
	assert.Equal(t, Dirt, terrain.BlockAt(surface, surface, false))

	high := terrain.SeaLevel + terrain.BeachHeight + 1
	assert.Equal(t, Grass, terrain.BlockAt(high, high, true))
}

func TestSandPatchThreshold(t *testing.T) {
	assert.True(t, NewTerrain(constNoise(0.3)).SandPatch(0, 0))
	assert.False(t, NewTerrain(constNoise(0.25)).SandPatch(0, 0))
}

func TestGenerateTerrainDeterministic(t *testing.T) {
	terrain := NewTerrain(waveNoise{})
	for _, coord := range []ChunkCoord{{0, 0}, {-3, 5}, {7, -1}} {
		a, b := NewChunk(coord), NewChunk(coord)
		a.GenerateTerrain(terrain)
		b.GenerateTerrain(terrain)
		assert.Equal(t, a.blocks, b.blocks)
		assert.Equal(t, a.BlockCount(), b.BlockCount())
	}
}

func TestGenerateTerrainIdempotent(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.GenerateTerrain(NewTerrain(constNoise(0)))
	before := c.BlockCount()

	c.GenerateTerrain(NewTerrain(constNoise(1)))
	assert.Equal(t, before, c.BlockCount())
	assert.Equal(t, Grass, c.Block(0, Height/2, 0).Type)
}
