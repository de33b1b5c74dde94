package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOpLatency records document store operation latency by operation and collection.
	StoreOpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "murmur_store_op_latency_seconds",
		Help:    "Document store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "collection"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CascadeResidue counts cleanup steps that failed after a primary
	// deletion committed, by entity and step.
	CascadeResidue = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_cascade_residue_total",
		Help: "Total number of cascade cleanup steps that left residue",
	}, []string{"entity", "step"})

	// RepairPrunes counts references and documents pruned by the repair pass.
	RepairPrunes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_repair_prunes_total",
		Help: "Total number of dangling references and orphans pruned by repair",
	}, []string{"kind"})
)

// StoreMetrics records store call latency for one collection.
type StoreMetrics struct {
	collection string
}

// NewStoreMetrics returns a StoreMetrics bound to the given collection.
func NewStoreMetrics(collection string) *StoreMetrics {
	return &StoreMetrics{collection: collection}
}

// TrackOp returns a function that records operation latency when called (e.g. defer).
func (m *StoreMetrics) TrackOp(operation string) func() {
	start := time.Now()
	return func() {
		StoreOpLatency.WithLabelValues(operation, m.collection).Observe(time.Since(start).Seconds())
	}
}
