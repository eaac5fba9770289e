package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ingestion orchestrator.
type Metrics struct {
	Ingests         *prometheus.CounterVec
	IngestDuration  prometheus.Histogram
	AttachmentBytes prometheus.Histogram
	OrphanedBlobs   prometheus.Counter
}

// New creates a new Metrics instance with all ingestion metrics registered.
func New() *Metrics {
	return &Metrics{
		Ingests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorgate_ingests_total",
			Help: "Ingestion attempts by outcome",
		}, []string{"outcome"}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sensorgate_ingest_duration_seconds",
			Help:    "Duration of full ingest calls (gate, blob put, catalog insert)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		AttachmentBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sensorgate_attachment_bytes",
			Help:    "Size of accepted attachments in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		OrphanedBlobs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensorgate_orphaned_blobs_total",
			Help: "Blobs stored whose catalog insert subsequently failed",
		}),
	}
}

// RecordIngest counts one ingest outcome: accepted, denied, rejected,
// or failed.
func (m *Metrics) RecordIngest(outcome string) {
	if m == nil {
		return
	}
	m.Ingests.WithLabelValues(outcome).Inc()
}

// ObserveIngest records the duration of an ingest call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveIngest(start time.Time) {
	if m == nil {
		return
	}
	m.IngestDuration.Observe(time.Since(start).Seconds())
}

// ObserveAttachment records the size of an accepted attachment.
func (m *Metrics) ObserveAttachment(sizeBytes int) {
	if m == nil {
		return
	}
	m.AttachmentBytes.Observe(float64(sizeBytes))
}

// RecordOrphanedBlob counts a blob left behind by a failed catalog insert.
// The out-of-core sweep alerts on this counter.
func (m *Metrics) RecordOrphanedBlob() {
	if m == nil {
		return
	}
	m.OrphanedBlobs.Inc()
}
