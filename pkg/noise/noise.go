// Package noise provides the fractal 2D noise fields used for terrain generation.
package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Type selects the base noise function.
type Type string

const (
	OpenSimplex Type = "opensimplex"
	Perlin      Type = "perlin"
)

// ErrUnknownType is returned for an unsupported noise type.
var ErrUnknownType = errors.New("noise: unknown type")

// Config describes a fractal (fBm) noise field.
type Config struct {
	Type             Type    `yaml:"type"`
	Seed             int64   `yaml:"seed"`
	Frequency        float32 `yaml:"frequency"`
	Octaves          int     `yaml:"octaves"`
	Lacunarity       float32 `yaml:"lacunarity"`
	Gain             float32 `yaml:"gain"`
	WeightedStrength float32 `yaml:"weighted_strength"`
}

// DefaultConfig returns the terrain noise defaults.
func DefaultConfig() Config {
	return Config{
		Type:             OpenSimplex,
		Seed:             1337,
		Frequency:        0.005,
		Octaves:          4,
		Lacunarity:       2,
		Gain:             0.5,
		WeightedStrength: 0,
	}
}

// Validate checks that the configuration describes a usable field.
func (c Config) Validate() error {
	switch c.Type {
	case OpenSimplex, Perlin:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("noise: octaves must be at least 1, got %d", c.Octaves)
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("noise: frequency must be positive, got %g", c.Frequency)
	}
	if c.WeightedStrength < 0 || c.WeightedStrength > 1 {
		return fmt.Errorf("noise: weighted strength must be in [0, 1], got %g", c.WeightedStrength)
	}
	return nil
}

type source func(x, z float32) float32

// Fractal sums octaves of a base noise. It is immutable after New and safe
// for concurrent use.
type Fractal struct {
	cfg      Config
	octaves  []source
	bounding float32
}

// New builds a fractal noise field from the configuration.
func New(cfg Config) (*Fractal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Fractal{cfg: cfg, octaves: make([]source, cfg.Octaves)}
	for i := range f.octaves {
		f.octaves[i] = newSource(cfg.Type, cfg.Seed+int64(i))
	}

	// Normalise so the sum of all octave amplitudes is 1.
	amp := cfg.Gain
	total := float32(1)
	for i := 1; i < cfg.Octaves; i++ {
		total += amp
		amp *= cfg.Gain
	}
	f.bounding = 1 / total
	return f, nil
}

func newSource(t Type, seed int64) source {
	switch t {
	case Perlin:
		p := perlin.NewPerlin(2, 2, 1, seed)
		return func(x, z float32) float32 {
			// Single-octave Perlin peaks near sqrt(1/2).
			return float32(p.Noise2D(float64(x), float64(z)) * math.Sqrt2)
		}
	default:
		n := opensimplex.New32(seed)
		return n.Eval2
	}
}

// Config returns the configuration the field was built from.
func (f *Fractal) Config() Config {
	return f.cfg
}

// Sample returns the noise value at x, z in [-1, 1].
func (f *Fractal) Sample(x, z float32) float32 {
	x *= f.cfg.Frequency
	z *= f.cfg.Frequency

	sum := float32(0)
	amp := f.bounding
	for _, octave := range f.octaves {
		n := clamp(octave(x, z))
		sum += n * amp
		amp *= lerp(1, min(n+1, 2)*0.5, f.cfg.WeightedStrength)

		x *= f.cfg.Lacunarity
		z *= f.cfg.Lacunarity
		amp *= f.cfg.Gain
	}
	return clamp(sum)
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func clamp(v float32) float32 {
	return max(-1, min(1, v))
}
