package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the analytics module.
type Metrics struct {
	// Snapshot compute latencies by snapshot kind
	SnapshotDuration *prometheus.HistogramVec

	// Snapshot cache outcomes by kind
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Reschedule recorder outcomes: recorded, same_week, duplicate, error
	RescheduleOutcomes *prometheus.CounterVec
}

// New creates a new Metrics instance with all analytics metrics registered.
func New() *Metrics {
	return &Metrics{
		SnapshotDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padoca_analytics_snapshot_duration_seconds",
			Help:    "Duration of snapshot computations by kind",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),

		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "padoca_analytics_cache_hits_total",
			Help: "Snapshot cache hits by kind",
		}, []string{"kind"}),

		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "padoca_analytics_cache_misses_total",
			Help: "Snapshot cache misses by kind",
		}, []string{"kind"}),

		RescheduleOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "padoca_analytics_reschedules_total",
			Help: "Reschedule recorder outcomes",
		}, []string{"outcome"}),
	}
}

// ObserveSnapshotDuration records how long a snapshot computation took.
func (m *Metrics) ObserveSnapshotDuration(kind string, d time.Duration) {
	if m != nil {
		m.SnapshotDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// RecordCacheHit counts a snapshot cache hit.
func (m *Metrics) RecordCacheHit(kind string) {
	if m != nil {
		m.CacheHits.WithLabelValues(kind).Inc()
	}
}

// RecordCacheMiss counts a snapshot cache miss.
func (m *Metrics) RecordCacheMiss(kind string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(kind).Inc()
	}
}

// RecordRescheduleOutcome counts a recorder outcome.
func (m *Metrics) RecordRescheduleOutcome(outcome string) {
	if m != nil {
		m.RescheduleOutcomes.WithLabelValues(outcome).Inc()
	}
}
