// Package game streams an infinite voxel world around the camera: it admits
// and generates chunks, schedules mesh jobs, installs finished meshes on the
// main goroutine, applies block edits and evicts chunks that fall out of range.
package game

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/voxelstream/pkg/tasks"
	"github.com/leterax/voxelstream/pkg/voxel"
)

// View is the camera state the world streams and draws around.
type View interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// MeshSink receives installed meshes and evictions on the main goroutine.
type MeshSink interface {
	Install(coord voxel.ChunkCoord, data *voxel.MeshData)
	Release(coord voxel.ChunkCoord)
}

// World owns the loaded chunks and everything needed to stream them.
// Except for BlockAt, its methods must be called from the main goroutine.
type World struct {
	cfg     Config
	terrain *voxel.Terrain
	chunks  *ChunkManager
	tasks   *tasks.Processor
	sink    MeshSink
	logger  *log.Logger
	metrics *Metrics

	loadQueue []voxel.ChunkCoord
	queued    map[voxel.ChunkCoord]struct{}
	uploads   uploadQueue
	inflight  atomic.Int64

	lastCenter voxel.ChunkCoord
	hasCenter  bool

	visible []voxel.ChunkCoord
}

// Option configures a World.
type Option func(*World)

// WithSink sets where finished meshes are installed.
func WithSink(s MeshSink) Option {
	return func(w *World) {
		w.sink = s
	}
}

// WithLogger sets the world logger.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		w.logger = l
	}
}

// WithMetrics sets the metrics the world reports to.
func WithMetrics(m *Metrics) Option {
	return func(w *World) {
		w.metrics = m
	}
}

// NewWorld creates an empty world generating terrain with the given rules and
// starts its mesh workers.
func NewWorld(cfg Config, terrain *voxel.Terrain, opts ...Option) *World {
	w := &World{
		cfg:     cfg,
		terrain: terrain,
		chunks:  NewChunkManager(),
		queued:  make(map[voxel.ChunkCoord]struct{}),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics == nil {
		w.metrics = NewMetrics(nil)
	}
	w.tasks = tasks.New(cfg.MeshWorkerThreads, tasks.WithLogger(w.logger))
	w.logger.Printf("world started: render distance %d, %d mesh workers", cfg.RenderDistanceChunks, w.tasks.Workers())
	return w
}

// Close stops the mesh workers. Meshes still queued are discarded.
func (w *World) Close() {
	w.tasks.Stop()
}

// Chunks returns the map of loaded chunks.
func (w *World) Chunks() *ChunkManager {
	return w.chunks
}

// Chunk returns the loaded chunk at coord.
func (w *World) Chunk(coord voxel.ChunkCoord) (*voxel.Chunk, bool) {
	return w.chunks.Load(coord)
}

// QueuedChunks returns the number of coordinates waiting for admission.
func (w *World) QueuedChunks() int {
	return len(w.loadQueue)
}

// PendingMeshes returns the number of mesh jobs not yet installed or discarded.
func (w *World) PendingMeshes() int {
	return int(w.inflight.Load()) + w.uploads.Len()
}

// Idle reports whether nothing is queued for admission, meshing or upload.
func (w *World) Idle() bool {
	return len(w.loadQueue) == 0 && w.PendingMeshes() == 0
}

// BlockAt returns the block at a world position. ok is false when the
// position's chunk is not loaded or y is outside the column. Safe for
// concurrent use.
func (w *World) BlockAt(x, y, z int) (voxel.Block, bool) {
	if y < 0 || y >= voxel.Height {
		return voxel.Block{}, false
	}
	chunk, ok := w.chunks.Load(voxel.WorldToChunkCoord(x, z))
	if !ok {
		return voxel.Block{}, false
	}
	lx, lz := voxel.WorldToLocalCoord(x, z)
	return chunk.Block(lx, y, lz), true
}

// Update advances streaming by one frame: it installs finished meshes,
// admits queued chunks and, when the camera entered a new chunk, recomputes
// which chunks to keep.
func (w *World) Update(view View) {
	w.applyUploads()
	w.admitQueued()

	position := view.Position()
	center := voxel.ChunkAt(position)
	if !w.hasCenter || center != w.lastCenter {
		w.lastCenter, w.hasCenter = center, true
		w.stream(position)
	}

	w.metrics.chunksLoaded.Set(float64(w.chunks.Len()))
	w.metrics.loadQueueDepth.Set(float64(len(w.loadQueue)))
	w.metrics.uploadQueueDepth.Set(float64(w.uploads.Len()))
}

// stream queues missing chunks around position and evicts the ones out of range.
func (w *World) stream(position mgl32.Vec3) {
	wanted := StreamSet(position, w.cfg.RenderDistanceChunks, w.cfg.StreamShape)
	keep := make(map[voxel.ChunkCoord]struct{}, len(wanted))

	added := 0
	for _, coord := range wanted {
		keep[coord] = struct{}{}
		if w.chunks.Has(coord) {
			continue
		}
		if _, ok := w.queued[coord]; ok {
			continue
		}
		w.queued[coord] = struct{}{}
		w.loadQueue = append(w.loadQueue, coord)
		added++
	}

	// Queued coordinates that left the range are no longer wanted.
	pending := w.loadQueue[:0]
	for _, coord := range w.loadQueue {
		if _, ok := keep[coord]; ok {
			pending = append(pending, coord)
		} else {
			delete(w.queued, coord)
		}
	}
	clear(w.loadQueue[len(pending):])
	w.loadQueue = pending

	var evicted []voxel.ChunkCoord
	w.chunks.Range(func(coord voxel.ChunkCoord, _ *voxel.Chunk) bool {
		if _, ok := keep[coord]; !ok && w.evict(coord) {
			evicted = append(evicted, coord)
		}
		return true
	})
	w.remeshExposed(evicted)

	w.logger.Printf("camera entered chunk %v: %d wanted, %d queued, %d evicted", w.lastCenter, len(wanted), added, len(evicted))
}

func (w *World) admitQueued() {
	for range w.cfg.ChunksAdmittedPerFrame {
		if len(w.loadQueue) == 0 {
			return
		}
		coord := w.loadQueue[0]
		w.loadQueue = w.loadQueue[1:]
		delete(w.queued, coord)

		if !w.chunks.Has(coord) {
			w.admit(coord)
		}
	}
}

// admit generates the chunk at coord, inserts it and meshes it together with
// its loaded lateral neighbours, whose boundary faces may now be hidden.
func (w *World) admit(coord voxel.ChunkCoord) {
	chunk := voxel.NewChunk(coord)
	chunk.GenerateTerrain(w.terrain)
	w.chunks.Store(chunk)
	w.metrics.chunksAdmitted.Inc()

	w.scheduleMesh(chunk)
	for _, n := range coord.LateralNeighbors() {
		if neighbour, ok := w.chunks.Load(n); ok {
			w.scheduleMesh(neighbour)
		}
	}
}

func (w *World) evict(coord voxel.ChunkCoord) bool {
	if _, ok := w.chunks.Delete(coord); !ok {
		return false
	}
	if w.sink != nil {
		w.sink.Release(coord)
	}
	w.metrics.chunksEvicted.Inc()
	return true
}

// remeshExposed re-meshes every loaded chunk bordering an evicted one, since
// its faces towards the gap are visible again. Each survivor is meshed once
// however many of its neighbours left.
func (w *World) remeshExposed(evicted []voxel.ChunkCoord) {
	seen := make(map[voxel.ChunkCoord]struct{})
	for _, coord := range evicted {
		for _, n := range coord.LateralNeighbors() {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if neighbour, ok := w.chunks.Load(n); ok {
				w.scheduleMesh(neighbour)
			}
		}
	}
}

// scheduleMesh queues a mesh job tagged with a fresh version of the chunk.
func (w *World) scheduleMesh(chunk *voxel.Chunk) {
	version := chunk.NextMeshVersion()
	w.inflight.Add(1)
	w.metrics.meshJobs.Inc()

	w.tasks.Enqueue(func() {
		start := time.Now()
		data := chunk.GenerateMeshData(w)
		w.metrics.meshBuild.Observe(time.Since(start).Seconds())

		w.uploads.Push(meshUpload{chunk: chunk, version: version, data: data})
		w.inflight.Add(-1)
	})
}

func (w *World) applyUploads() {
	for range w.cfg.UploadsPerFrame {
		u, ok := w.uploads.Pop()
		if !ok {
			return
		}
		w.applyUpload(u)
	}
}

// applyUpload installs a finished mesh unless the chunk was evicted or a
// newer mesh job was scheduled after this one.
func (w *World) applyUpload(u meshUpload) {
	coord := u.chunk.Coord()
	if current, ok := w.chunks.Load(coord); !ok || current != u.chunk {
		w.metrics.meshUploads.WithLabelValues(uploadEvicted).Inc()
		return
	}
	if u.version != u.chunk.MeshVersion() {
		w.metrics.meshUploads.WithLabelValues(uploadStale).Inc()
		return
	}

	u.chunk.InstallMesh(u.version, u.data)
	if w.sink != nil {
		w.sink.Install(coord, u.data)
	}
	w.chunks.markChunksChanged()
	w.metrics.meshUploads.WithLabelValues(uploadApplied).Inc()
}
