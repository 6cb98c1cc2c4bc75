package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Operations      *prometheus.CounterVec // coordinator operations by op and outcome
	PartialFailures *prometheus.CounterVec // degraded operations by failed graph step
	StoreLatency    *prometheus.HistogramVec
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Coordinator operations by operation and terminal outcome",
		}, []string{"operation", "outcome"}),
		PartialFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Operations where the primary write committed but the graph step failed",
		}, []string{"operation", "step"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_duration_seconds",
			Help:      "Latency of individual store adapter calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "call"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
