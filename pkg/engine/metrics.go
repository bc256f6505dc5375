package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type executorMetrics struct {
	execLatency *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	resultRows  prometheus.Histogram
	slowQueries prometheus.Counter
}

func newExecutorMetrics(reg prometheus.Registerer) *executorMetrics {
	return &executorMetrics{
		execLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quetzal",
			Name:      "engine_operation_duration_seconds",
			Help:      "Distribution of wall time per executed operation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),
		cacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "quetzal",
			Name:      "engine_result_cache_hits_total",
			Help:      "Operations served from the result cache.",
		}),
		cacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "quetzal",
			Name:      "engine_result_cache_misses_total",
			Help:      "Operations that had to be computed.",
		}),
		resultRows: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "quetzal",
			Name:      "engine_result_rows",
			Help:      "Distribution of result sizes in rows.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}),
		slowQueries: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "quetzal",
			Name:      "engine_slow_operations_total",
			Help:      "Operations slower than the configured threshold.",
		}),
	}
}
