package voxel

// NoiseSource is a deterministic 2D noise field returning values in [-1, 1].
// Implementations must be safe for concurrent use.
type NoiseSource interface {
	Sample(x, z float32) float32
}

// Terrain holds the rules that turn a noise field into block columns.
type Terrain struct {
	noise NoiseSource

	// TerrainFrequency scales world coordinates before sampling the height field.
	// A second sample is taken at 1.25x this frequency and the larger one wins.
	TerrainFrequency float32
	// SandFrequency scales world coordinates before sampling the sand field.
	SandFrequency float32
	// SandThreshold is the sand noise value a column must exceed to be sand-eligible.
	SandThreshold float32
	// MinHeight and MaxHeight bound the surface as fractions of the chunk height.
	MinHeight, MaxHeight float32
	DirtDepth            int
	BeachHeight          int
	SeaLevel             int
}

// NewTerrain returns terrain rules with the default constants.
func NewTerrain(noise NoiseSource) *Terrain {
	return &Terrain{
		noise:            noise,
		TerrainFrequency: 1,
		SandFrequency:    2,
		SandThreshold:    0.25,
		MinHeight:        0.25,
		MaxHeight:        0.75,
		DirtDepth:        3,
		BeachHeight:      1,
		SeaLevel:         Height / 2,
	}
}

// ScaleNoise maps a noise value in [-1, 1] linearly onto [min, max].
func ScaleNoise(v, min, max float32) float32 {
	v = clamp(v, -1, 1)
	return min + (v+1)/2*(max-min)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SurfaceHeight returns the surface block height of the column at world x, z.
// The result is always within [1, Height-1].
func (t *Terrain) SurfaceHeight(wx, wz int) int {
	f := t.TerrainFrequency
	x, z := float32(wx), float32(wz)
	n := max(t.noise.Sample(x*f, z*f), t.noise.Sample(x*f*1.25, z*f*1.25))

	h := int(ScaleNoise(n, t.MinHeight, t.MaxHeight) * Height)
	if h < 1 {
		h = 1
	}
	if h > Height-1 {
		h = Height - 1
	}
	return h
}

// SandPatch reports whether the column at world x, z may be covered in sand.
func (t *Terrain) SandPatch(wx, wz int) bool {
	f := t.SandFrequency
	return t.noise.Sample(float32(wx)*f, float32(wz)*f) > t.SandThreshold
}

// BlockAt returns the block type at height y of a column with the given surface height.
func (t *Terrain) BlockAt(y, surface int, sand bool) BlockType {
	if y > surface {
		if y <= t.SeaLevel {
			return Water
		}
		return Air
	}

	switch {
	case y == 0:
		return Bedrock
	case sand && surface <= t.SeaLevel+t.BeachHeight && y > surface-t.DirtDepth:
		return Sand
	case y == surface:
		if y >= t.SeaLevel {
			return Grass
		}
		return Dirt
	case y > surface-t.DirtDepth:
		return Dirt
	default:
		return Stone
	}
}
