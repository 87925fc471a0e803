// Command meshstats streams a region of the world without a window, meshes
// every chunk and prints geometry statistics.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/config"
	"github.com/leterax/voxelstream/pkg/game"
	"github.com/leterax/voxelstream/pkg/noise"
	"github.com/leterax/voxelstream/pkg/voxel"
)

type chunkStats struct {
	opaque, transparent int
	blocks              int
}

// statsSink keeps the latest mesh statistics of every installed chunk.
type statsSink struct {
	chunks   map[voxel.ChunkCoord]chunkStats
	installs int
}

func (s *statsSink) Install(coord voxel.ChunkCoord, data *voxel.MeshData) {
	s.chunks[coord] = chunkStats{
		opaque:      data.Opaque.Faces(),
		transparent: data.Transparent.Faces(),
		blocks:      data.BlockCount,
	}
	s.installs++
}

func (s *statsSink) Release(coord voxel.ChunkCoord) {
	delete(s.chunks, coord)
}

// fixedView looks straight down -Z from a fixed point.
type fixedView struct {
	position mgl32.Vec3
}

func (v fixedView) Position() mgl32.Vec3 { return v.position }

func (v fixedView) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(v.position, v.position.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0})
}

func (v fixedView) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(70), 16.0/9.0, 0.1, 1000)
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	renderDist := flag.Int("renderdist", 4, "Render distance in chunks")
	seed := flag.Int64("seed", 0, "Terrain seed (overrides config)")
	x := flag.Float64("x", 8, "Camera X in blocks")
	z := flag.Float64("z", 8, "Camera Z in blocks")
	verbose := flag.Bool("v", false, "Log world streaming")
	timeout := flag.Duration("timeout", time.Minute, "Give up after this long")
	flag.Parse()

	logger := log.New(os.Stderr, "[meshstats] ", log.LstdFlags|log.Lmicroseconds)

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatalf("Failed to load config: %v", err)
		}
	}
	cfg.World.RenderDistanceChunks = *renderDist
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Terrain.Noise.Seed = *seed
		}
	})
	// Admit everything at once; there is no frame budget to protect.
	cfg.World.ChunksAdmittedPerFrame = 1 << 16
	cfg.World.UploadsPerFrame = 1 << 16
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	source, err := noise.New(cfg.Terrain.Noise)
	if err != nil {
		logger.Fatalf("Failed to create noise: %v", err)
	}

	worldLog := log.New(io.Discard, "", 0)
	if *verbose {
		worldLog = log.New(os.Stderr, "[world] ", log.LstdFlags|log.Lmicroseconds)
	}

	sink := &statsSink{chunks: make(map[voxel.ChunkCoord]chunkStats)}
	world := game.NewWorld(cfg.World, voxel.NewTerrain(source),
		game.WithSink(sink),
		game.WithLogger(worldLog),
	)
	defer world.Close()

	view := fixedView{position: mgl32.Vec3{float32(*x), float32(voxel.Height), float32(*z)}}

	start := time.Now()
	frames := 0
	for {
		world.Update(view)
		frames++
		if world.Idle() {
			break
		}
		if time.Since(start) > *timeout {
			logger.Fatalf("Timed out with %d chunks queued and %d meshes pending", world.QueuedChunks(), world.PendingMeshes())
		}
		time.Sleep(time.Millisecond)
	}
	elapsed := time.Since(start)

	var total chunkStats
	empty := 0
	for _, s := range sink.chunks {
		total.opaque += s.opaque
		total.transparent += s.transparent
		total.blocks += s.blocks
		if s.opaque+s.transparent == 0 {
			empty++
		}
	}
	faces := total.opaque + total.transparent
	vertexBytes := faces * 4 * 8
	indexBytes := faces * 6 * 4

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "seed\t%d\t(%s)\n", cfg.Terrain.Noise.Seed, cfg.Terrain.Noise.Type)
	fmt.Fprintf(tw, "chunks\t%d\t(%d empty, %d installs)\n", len(sink.chunks), empty, sink.installs)
	fmt.Fprintf(tw, "blocks\t%d\t\n", total.blocks)
	fmt.Fprintf(tw, "opaque faces\t%d\t\n", total.opaque)
	fmt.Fprintf(tw, "transparent faces\t%d\t\n", total.transparent)
	fmt.Fprintf(tw, "vertex data\t%.1f MiB\t\n", float64(vertexBytes)/(1<<20))
	fmt.Fprintf(tw, "index data\t%.1f MiB\t\n", float64(indexBytes)/(1<<20))
	fmt.Fprintf(tw, "elapsed\t%s\t(%d frames)\n", elapsed.Round(time.Millisecond), frames)
	if len(sink.chunks) > 0 {
		fmt.Fprintf(tw, "per chunk\t%s\t\n", (elapsed / time.Duration(len(sink.chunks))).Round(time.Microsecond))
	}
	tw.Flush()
}
