package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leterax/voxelstream/pkg/config"
	"github.com/leterax/voxelstream/pkg/game"
	"github.com/leterax/voxelstream/pkg/noise"
	"github.com/leterax/voxelstream/pkg/voxel"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	logger := log.New(os.Stdout, "[voxels] ", log.LstdFlags|log.Lmicroseconds)

	// Parse command line flags
	configPath := flag.String("config", "", "Path to a YAML config file")
	renderDist := flag.Int("renderdist", 0, "Render distance in chunks (overrides config)")
	seed := flag.Int64("seed", 0, "Terrain seed (overrides config)")
	metricsAddr := flag.String("metrics", "", "Address to serve Prometheus metrics on, e.g. :9100 (overrides config)")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatalf("Failed to load config: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderdist":
			cfg.World.RenderDistanceChunks = *renderDist
		case "seed":
			cfg.Terrain.Noise.Seed = *seed
		case "metrics":
			cfg.MetricsAddr = *metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	source, err := noise.New(cfg.Terrain.Noise)
	if err != nil {
		logger.Fatalf("Failed to create noise: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := game.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, reg, logger)
	}

	app, err := newApp(cfg, voxel.NewTerrain(source), metrics)
	if err != nil {
		logger.Fatalf("Failed to initialize: %v", err)
	}
	app.Run()
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	logger.Printf("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("Metrics server stopped: %v", err)
	}
}
