package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBPoolAcquiredConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_db_pool_acquired_connections",
			Help: "Number of connections currently acquired from the pool",
		},
	)

	DBPoolIdleConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		},
	)

	DBPoolTotalConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_db_pool_total_connections",
			Help: "Total number of connections in the pool",
		},
	)

	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloglist_db_query_duration_seconds",
			Help:    "Repository query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloglist_db_query_errors_total",
			Help: "Repository query errors",
		},
		[]string{"operation", "table", "error_type"},
	)
)
