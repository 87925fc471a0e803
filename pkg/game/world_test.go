package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/voxelstream/pkg/render"
	"github.com/leterax/voxelstream/pkg/voxel"
)

// flatNoise puts the surface at Height/2 everywhere with no sand.
type flatNoise struct{}

func (flatNoise) Sample(x, z float32) float32 { return 0 }

type recordingSink struct {
	installed map[voxel.ChunkCoord]*voxel.MeshData
	installs  int
	released  []voxel.ChunkCoord
}

func newRecordingSink() *recordingSink {
	return &recordingSink{installed: make(map[voxel.ChunkCoord]*voxel.MeshData)}
}

func (s *recordingSink) Install(coord voxel.ChunkCoord, data *voxel.MeshData) {
	s.installed[coord] = data
	s.installs++
}

func (s *recordingSink) Release(coord voxel.ChunkCoord) {
	delete(s.installed, coord)
	s.released = append(s.released, coord)
}

func testConfig(renderDistance int) Config {
	cfg := DefaultConfig()
	cfg.RenderDistanceChunks = renderDistance
	cfg.MeshWorkerThreads = 2
	return cfg
}

func newTestWorld(t *testing.T, cfg Config, opts ...Option) *World {
	t.Helper()
	require.NoError(t, cfg.Validate())
	w := NewWorld(cfg, voxel.NewTerrain(flatNoise{}), opts...)
	t.Cleanup(w.Close)
	return w
}

// settle runs frames until nothing is left to admit, mesh or install.
func settle(t *testing.T, w *World, view View) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		w.Update(view)
		if w.Idle() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("world did not settle: %d queued, %d meshes pending", w.QueuedChunks(), w.PendingMeshes())
		}
		if w.uploads.Len() == 0 {
			time.Sleep(100 * time.Microsecond)
		}
	}
}

func cameraAt(x, y, z float32) *render.Camera {
	return render.NewCamera(mgl32.Vec3{x, y, z})
}

func versions(w *World) map[voxel.ChunkCoord]uint64 {
	out := make(map[voxel.ChunkCoord]uint64)
	w.Chunks().Range(func(coord voxel.ChunkCoord, chunk *voxel.Chunk) bool {
		out[coord] = chunk.MeshVersion()
		return true
	})
	return out
}

func TestStreamsSquareAroundCamera(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(2), WithSink(sink))

	settle(t, w, cameraAt(0, 100, 0))

	assert.Equal(t, 25, w.Chunks().Len())
	assert.Len(t, sink.installed, 25)
	for dx := int32(-2); dx <= 2; dx++ {
		for dz := int32(-2); dz <= 2; dz++ {
			coord := voxel.ChunkCoord{X: dx, Z: dz}
			chunk, ok := w.Chunk(coord)
			require.True(t, ok, coord.String())
			assert.True(t, chunk.TerrainGenerated())
			assert.Equal(t, chunk.MeshVersion(), chunk.InstalledVersion())
		}
	}
	assert.True(t, w.Chunks().HaveChunksChanged())
	assert.False(t, w.Chunks().HaveChunksChanged())
}

func TestInteriorChunkMeshHidesSharedFaces(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(1), WithSink(sink))
	settle(t, w, cameraAt(8, 100, 8))

	// The center chunk has all four neighbours loaded, so only tops and bottoms remain.
	data := sink.installed[voxel.ChunkCoord{}]
	require.NotNil(t, data)
	assert.Equal(t, 2*voxel.Width*voxel.Width, data.Opaque.Faces())

	chunk, _ := w.Chunk(voxel.ChunkCoord{})
	top := chunk.Block(3, voxel.Height/2, 3)
	assert.True(t, top.IsMeshed())
	assert.True(t, top.HasFace(voxel.Up))
	assert.False(t, top.HasFace(voxel.East))
}

func TestCircleShape(t *testing.T) {
	cfg := testConfig(2)
	cfg.StreamShape = ShapeCircle
	w := newTestWorld(t, cfg)

	settle(t, w, cameraAt(8, 100, 8))
	assert.Equal(t, 13, w.Chunks().Len())
}

func TestMovingCameraEvicts(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(1), WithSink(sink))

	settle(t, w, cameraAt(8, 100, 8))
	require.Equal(t, 9, w.Chunks().Len())

	settle(t, w, cameraAt(5*voxel.Width+8, 100, 8))
	assert.Equal(t, 9, w.Chunks().Len())
	assert.Len(t, sink.released, 9)
	for _, coord := range sink.released {
		assert.False(t, w.Chunks().Has(coord))
	}
	for dx := int32(4); dx <= 6; dx++ {
		assert.True(t, w.Chunks().Has(voxel.ChunkCoord{X: dx, Z: 1}))
	}
}

func TestEvictionExposesSurvivingNeighbour(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(1), WithSink(sink))

	settle(t, w, cameraAt(8, 100, 8))
	before := versions(w)
	require.Equal(t, 2*voxel.Width*voxel.Width, sink.installed[voxel.ChunkCoord{}].Opaque.Faces())

	// One chunk east: the x=-1 column goes, (0,0) keeps its other three neighbours.
	settle(t, w, cameraAt(voxel.Width+8, 100, 8))
	require.False(t, w.Chunks().Has(voxel.ChunkCoord{X: -1}))

	after := versions(w)
	assert.Greater(t, after[voxel.ChunkCoord{}], before[voxel.ChunkCoord{}])
	assert.Greater(t, after[voxel.ChunkCoord{Z: -1}], before[voxel.ChunkCoord{Z: -1}])

	// Tops and bottoms plus the whole west side down to the bedrock layer.
	westSide := voxel.Width * (voxel.Height/2 + 1)
	data := sink.installed[voxel.ChunkCoord{}]
	require.NotNil(t, data)
	assert.Equal(t, 2*voxel.Width*voxel.Width+westSide, data.Opaque.Faces())

	chunk, _ := w.Chunk(voxel.ChunkCoord{})
	assert.True(t, chunk.Block(0, voxel.Height/2, 3).HasFace(voxel.West))
	assert.False(t, chunk.Block(voxel.Width-1, voxel.Height/2, 3).HasFace(voxel.East))
}

func TestUnchangedCameraChunkSkipsScan(t *testing.T) {
	cfg := testConfig(1)
	cfg.ChunksAdmittedPerFrame = 1
	w := newTestWorld(t, cfg)

	w.Update(cameraAt(1, 100, 1))
	assert.Equal(t, 9, w.QueuedChunks())

	// Still inside chunk (0, 0): one admission, no rescan.
	w.Update(cameraAt(15, 100, 15))
	assert.Equal(t, 8, w.QueuedChunks())
	assert.Equal(t, 1, w.Chunks().Len())
}

func TestQueuedChunksDroppedWhenOutOfRange(t *testing.T) {
	cfg := testConfig(1)
	cfg.ChunksAdmittedPerFrame = 1
	w := newTestWorld(t, cfg)

	w.Update(cameraAt(8, 100, 8))
	require.Equal(t, 9, w.QueuedChunks())

	w.Update(cameraAt(10*voxel.Width+8, 100, 8))
	assert.Equal(t, 9, w.QueuedChunks())
	assert.Zero(t, w.Chunks().Len())
	for coord := range w.queued {
		assert.InDelta(t, 10, coord.X, 1)
	}
}

func TestPlaceGlassRemeshesOwnerOnlyInside(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(1), WithSink(sink))
	view := cameraAt(8, 100, 8)
	settle(t, w, view)

	surface := voxel.Height / 2
	before := versions(w)
	w.PlaceBlock(voxel.BlockPos{X: 5, Y: surface + 1, Z: 5}, voxel.Glass)

	after := versions(w)
	for coord, v := range before {
		if coord == (voxel.ChunkCoord{}) {
			assert.Equal(t, v+1, after[coord])
		} else {
			assert.Equal(t, v, after[coord], coord.String())
		}
	}

	settle(t, w, view)
	data := sink.installed[voxel.ChunkCoord{}]
	assert.Len(t, data.TransparentQuads, 5)
	assert.Equal(t, 2*voxel.Width*voxel.Width, data.Opaque.Faces())
}

func TestPlaceGlassOnBoundaryRemeshesNeighbour(t *testing.T) {
	w := newTestWorld(t, testConfig(1))
	settle(t, w, cameraAt(8, 100, 8))

	surface := voxel.Height / 2
	before := versions(w)
	w.PlaceBlock(voxel.BlockPos{X: voxel.Width - 1, Y: surface + 1, Z: 5}, voxel.Glass)

	after := versions(w)
	bumped := map[voxel.ChunkCoord]bool{{X: 0, Z: 0}: true, {X: 1, Z: 0}: true}
	for coord, v := range before {
		if bumped[coord] {
			assert.Equal(t, v+1, after[coord], coord.String())
		} else {
			assert.Equal(t, v, after[coord], coord.String())
		}
	}

	// A corner block touches two neighbours.
	before = after
	w.BreakBlock(voxel.BlockPos{X: 0, Y: surface, Z: 0})
	after = versions(w)
	for _, coord := range []voxel.ChunkCoord{{X: 0, Z: 0}, {X: -1, Z: 0}, {X: 0, Z: -1}} {
		assert.Equal(t, before[coord]+1, after[coord], coord.String())
	}
	assert.Equal(t, before[voxel.ChunkCoord{X: -1, Z: -1}], after[voxel.ChunkCoord{X: -1, Z: -1}])
}

func TestEditNoOps(t *testing.T) {
	w := newTestWorld(t, testConfig(0))
	settle(t, w, cameraAt(8, 100, 8))
	before := versions(w)

	surface := voxel.Height / 2
	w.BreakBlock(voxel.BlockPos{X: 3, Y: surface + 5, Z: 3})                // air
	w.PlaceBlock(voxel.BlockPos{X: 3, Y: surface, Z: 3}, voxel.Stone)       // occupied
	w.PlaceBlock(voxel.BlockPos{X: 3, Y: surface + 1, Z: 3}, voxel.Air)     // placing air
	w.PlaceBlock(voxel.BlockPos{X: 3, Y: voxel.Height, Z: 3}, voxel.Stone)  // above the column
	w.BreakBlock(voxel.BlockPos{X: 3, Y: -1, Z: 3})                         // below the column
	w.PlaceBlock(voxel.BlockPos{X: 100, Y: surface + 1, Z: 3}, voxel.Stone) // unloaded chunk

	assert.Equal(t, before, versions(w))
	chunk, _ := w.Chunk(voxel.ChunkCoord{})
	assert.Equal(t, voxel.Grass, chunk.Block(3, surface, 3).Type)
}

func TestBreakThenPlaceRestoresMesh(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(1), WithSink(sink))
	view := cameraAt(8, 100, 8)
	settle(t, w, view)

	original := sink.installed[voxel.ChunkCoord{}]
	pos := voxel.BlockPos{X: 7, Y: voxel.Height / 2, Z: 7}

	w.BreakBlock(pos)
	settle(t, w, view)
	assert.NotEqual(t, original.Opaque.Faces(), sink.installed[voxel.ChunkCoord{}].Opaque.Faces())

	w.PlaceBlock(pos, voxel.Grass)
	settle(t, w, view)
	restored := sink.installed[voxel.ChunkCoord{}]
	assert.Equal(t, original.Opaque, restored.Opaque)
	assert.Equal(t, original.Transparent, restored.Transparent)
	assert.Equal(t, original.BlockCount, restored.BlockCount)
}

func TestStaleAndEvictedUploadsDiscarded(t *testing.T) {
	sink := newRecordingSink()
	w := newTestWorld(t, testConfig(0), WithSink(sink))
	settle(t, w, cameraAt(8, 100, 8))
	installs := sink.installs

	chunk, ok := w.Chunk(voxel.ChunkCoord{})
	require.True(t, ok)

	older := chunk.NextMeshVersion()
	data := chunk.GenerateMeshData(w)
	newer := chunk.NextMeshVersion()

	w.applyUpload(meshUpload{chunk: chunk, version: older, data: data})
	assert.Equal(t, installs, sink.installs)
	assert.NotEqual(t, older, chunk.InstalledVersion())
	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.meshUploads.WithLabelValues(uploadStale)))

	w.applyUpload(meshUpload{chunk: chunk, version: newer, data: data})
	assert.Equal(t, installs+1, sink.installs)
	assert.Equal(t, newer, chunk.InstalledVersion())

	orphan := voxel.NewChunk(voxel.ChunkCoord{X: 40})
	w.applyUpload(meshUpload{chunk: orphan, version: orphan.NextMeshVersion(), data: data})
	assert.Equal(t, installs+1, sink.installs)
	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.meshUploads.WithLabelValues(uploadEvicted)))

	// A replaced chunk instance at the same coordinate counts as evicted too.
	impostor := voxel.NewChunk(voxel.ChunkCoord{})
	w.applyUpload(meshUpload{chunk: impostor, version: impostor.NextMeshVersion(), data: data})
	assert.Equal(t, 2.0, testutil.ToFloat64(w.metrics.meshUploads.WithLabelValues(uploadEvicted)))
}

func TestBlockAt(t *testing.T) {
	w := newTestWorld(t, testConfig(0))
	settle(t, w, cameraAt(8, 100, 8))

	b, ok := w.BlockAt(4, 0, 4)
	assert.True(t, ok)
	assert.Equal(t, voxel.Bedrock, b.Type)

	b, ok = w.BlockAt(4, voxel.Height/2, 4)
	assert.True(t, ok)
	assert.Equal(t, voxel.Grass, b.Type)

	_, ok = w.BlockAt(4, voxel.Height, 4)
	assert.False(t, ok)
	_, ok = w.BlockAt(-1, 10, 4)
	assert.False(t, ok)
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	w := newTestWorld(t, testConfig(1), WithMetrics(metrics))
	settle(t, w, cameraAt(8, 100, 8))

	assert.Equal(t, 9.0, testutil.ToFloat64(metrics.chunksAdmitted))
	assert.Equal(t, 9.0, testutil.ToFloat64(metrics.chunksLoaded))
	assert.Equal(t, testutil.ToFloat64(metrics.meshJobs), testutil.ToFloat64(metrics.meshUploads.WithLabelValues(uploadApplied))+
		testutil.ToFloat64(metrics.meshUploads.WithLabelValues(uploadStale)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "voxel_chunks_admitted_total")
	assert.Contains(t, names, "voxel_mesh_build_seconds")
}
