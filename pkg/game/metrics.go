package game

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors describing world streaming.
type Metrics struct {
	chunksLoaded     prometheus.Gauge
	loadQueueDepth   prometheus.Gauge
	uploadQueueDepth prometheus.Gauge
	chunksAdmitted   prometheus.Counter
	chunksEvicted    prometheus.Counter
	meshJobs         prometheus.Counter
	meshUploads      *prometheus.CounterVec
	blockEdits       *prometheus.CounterVec
	meshBuild        prometheus.Histogram
}

// Upload results.
const (
	uploadApplied = "applied"
	uploadStale   = "stale"
	uploadEvicted = "evicted"
)

// NewMetrics creates the collectors and registers them on reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "chunks_loaded",
			Help:      "Number of chunks currently in the world map.",
		}),
		loadQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "load_queue_depth",
			Help:      "Chunk coordinates waiting for admission.",
		}),
		uploadQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "upload_queue_depth",
			Help:      "Finished meshes waiting to be installed.",
		}),
		chunksAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_admitted_total",
			Help:      "Chunks generated and inserted into the world.",
		}),
		chunksEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_evicted_total",
			Help:      "Chunks removed for leaving the render distance.",
		}),
		meshJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "mesh_jobs_total",
			Help:      "Mesh jobs scheduled on the task processor.",
		}),
		meshUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "mesh_uploads_total",
			Help:      "Finished meshes drained from the upload queue, by result.",
		}, []string{"result"}),
		blockEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "block_edits_total",
			Help:      "Block edits applied, by operation.",
		}, []string{"op"}),
		meshBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "mesh_build_seconds",
			Help:      "Time spent building one chunk mesh.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.chunksLoaded, m.loadQueueDepth, m.uploadQueueDepth,
			m.chunksAdmitted, m.chunksEvicted, m.meshJobs,
			m.meshUploads, m.blockEdits, m.meshBuild,
		)
	}
	return m
}
