// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leterax/voxelstream/pkg/game"
	"github.com/leterax/voxelstream/pkg/noise"
	"github.com/leterax/voxelstream/pkg/render"
)

// Config is the full application configuration.
type Config struct {
	World       game.Config `yaml:"world"`
	Terrain     Terrain     `yaml:"terrain"`
	Render      Render      `yaml:"render"`
	Window      Window      `yaml:"window"`
	MetricsAddr string      `yaml:"metrics_addr"`
}

// Terrain configures world generation.
type Terrain struct {
	Noise noise.Config `yaml:"noise"`
}

// Render configures draw-time behaviour.
type Render struct {
	// SortDistance is the planar distance in blocks within which transparent
	// faces are depth sorted every frame.
	SortDistance float32 `yaml:"sort_distance"`
}

// Window configures the application window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		World:   game.DefaultConfig(),
		Terrain: Terrain{Noise: noise.DefaultConfig()},
		Render:  Render{SortDistance: render.DefaultSortDistance},
		Window: Window{
			Width:  render.DefaultWidth,
			Height: render.DefaultHeight,
			Title:  "Voxels",
			VSync:  true,
		},
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section and joins the errors found.
func (c Config) Validate() error {
	var errs []error
	if err := c.World.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Terrain.Noise.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.SortDistance < 0 {
		errs = append(errs, fmt.Errorf("render: sort distance must not be negative, got %g", c.Render.SortDistance))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
