package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization gate.
type Metrics struct {
	Decisions *prometheus.CounterVec
	CacheHits prometheus.Counter
}

// New creates a new Metrics instance with all gate metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorgate_authorize_total",
			Help: "Authorization decisions by outcome",
		}, []string{"outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensorgate_authorize_cache_hits_total",
			Help: "Authorization decisions served from the decision cache",
		}),
	}
}

// RecordDecision counts one gate outcome: allowed, denied, or unavailable.
func (m *Metrics) RecordDecision(outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(outcome).Inc()
}

// RecordCacheHit counts a decision answered without a registry lookup.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}
