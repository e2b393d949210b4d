package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BlogsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_blogs_created_total",
			Help: "Total number of blogs created",
		},
	)

	BlogsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_blogs_deleted_total",
			Help: "Total number of blogs deleted",
		},
	)

	LikesUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_likes_updated_total",
			Help: "Total number of public likes updates",
		},
	)

	OwnershipChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloglist_ownership_checks_total",
			Help: "Ownership authorization decisions",
		},
		[]string{"decision"},
	)

	EventFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_event_feed_clients",
			Help: "Number of connected blog event feed subscribers",
		},
	)

	EventFeedDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_event_feed_dropped_total",
			Help: "Events dropped because a subscriber's send buffer was full",
		},
	)
)
