package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Operations        *prometheus.CounterVec
	Conflicts         prometheus.Counter
	OperationDuration *prometheus.HistogramVec
	ValidationFailed  prometheus.Counter
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_operations_total",
			Help:      "The total number of flight operations by kind",
		}, []string{"operation"}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_conflicts_total",
			Help:      "The total number of optimistic concurrency conflicts on update",
		}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_operation_duration_seconds",
			Help:      "Time taken to serve flight operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		ValidationFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_validation_failures_total",
			Help:      "The total number of requests rejected by validation",
		}),
	}
}
