package game

import (
	"fmt"
)

// StreamShape selects which chunks around the camera are kept loaded.
type StreamShape string

const (
	// ShapeSquare keeps every chunk within RenderDistanceChunks rings of the camera chunk.
	ShapeSquare StreamShape = "square"
	// ShapeCircle keeps chunks whose center lies within RenderDistanceChunks
	// chunk widths of the camera, measured on the horizontal plane.
	ShapeCircle StreamShape = "circle"
)

// Config holds the world streaming parameters.
type Config struct {
	RenderDistanceChunks   int         `yaml:"render_distance_chunks"`
	ChunksAdmittedPerFrame int         `yaml:"chunks_admitted_per_frame"`
	MeshWorkerThreads      int         `yaml:"mesh_worker_threads"`
	UploadsPerFrame        int         `yaml:"uploads_per_frame"`
	StreamShape            StreamShape `yaml:"stream_shape"`
}

// DefaultConfig returns the default streaming parameters.
func DefaultConfig() Config {
	return Config{
		RenderDistanceChunks:   16,
		ChunksAdmittedPerFrame: 4,
		MeshWorkerThreads:      0,
		UploadsPerFrame:        1,
		StreamShape:            ShapeSquare,
	}
}

// Validate checks the streaming parameters.
func (c Config) Validate() error {
	if c.RenderDistanceChunks < 0 {
		return fmt.Errorf("world: render distance must not be negative, got %d", c.RenderDistanceChunks)
	}
	if c.ChunksAdmittedPerFrame < 1 {
		return fmt.Errorf("world: chunks admitted per frame must be at least 1, got %d", c.ChunksAdmittedPerFrame)
	}
	if c.UploadsPerFrame < 1 {
		return fmt.Errorf("world: uploads per frame must be at least 1, got %d", c.UploadsPerFrame)
	}
	switch c.StreamShape {
	case ShapeSquare, ShapeCircle:
	default:
		return fmt.Errorf("world: unknown stream shape %q", c.StreamShape)
	}
	return nil
}
