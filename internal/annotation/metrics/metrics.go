package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SourceLatency     *prometheus.HistogramVec
	SourceFailures    *prometheus.CounterVec
	AggregationsTotal prometheus.Counter
	CacheHits         prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SourceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "varhub_annotation_source_latency_seconds",
			Help:    "Latency of registry source calls during aggregation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		SourceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "varhub_annotation_source_failures_total",
			Help: "Total number of registry source failures during aggregation",
		}, []string{"source"}),
		AggregationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "varhub_annotation_aggregations_total",
			Help: "Total number of annotation aggregation requests",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "varhub_annotation_cache_hits_total",
			Help: "Total number of aggregations served from the result cache",
		}),
	}
}

func (m *Metrics) ObserveSourceLatency(source string, d time.Duration) {
	m.SourceLatency.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) IncrementSourceFailures(source string) {
	m.SourceFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) IncrementAggregations() {
	m.AggregationsTotal.Inc()
}

func (m *Metrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}
