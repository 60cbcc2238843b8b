package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters, registered once at package load. Handlers and the social
// service bump them directly.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openflock_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openflock_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	FollowToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openflock_follow_toggles_total",
			Help: "Follow graph toggles by resulting action",
		},
		[]string{"action"},
	)

	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openflock_like_toggles_total",
			Help: "Like toggles by resulting action",
		},
		[]string{"action"},
	)

	CommentsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "openflock_comments_appended_total",
			Help: "Comments appended to posts",
		},
	)

	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "openflock_posts_created_total",
			Help: "Posts created",
		},
	)

	NotificationsFanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openflock_notifications_fanned_total",
			Help: "Notifications fanned out by type",
		},
		[]string{"type"},
	)

	FeedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openflock_feed_cache_lookups_total",
			Help: "Global feed cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
