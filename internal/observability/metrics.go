// Package observability provides structured logging and Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cirqls_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// WebSocketConnections is the gauge of registered push-channel subscribers.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cirqls_websocket_connections",
		Help: "Number of active push-channel subscribers",
	})

	// WebSocketEventsDelivered counts events forwarded to live subscribers.
	WebSocketEventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cirqls_websocket_events_delivered_total",
		Help: "Total number of push events delivered to live subscribers",
	})

	// WebSocketBackpressureDrops counts events dropped because a subscriber's
	// buffer was full or its channel already closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cirqls_websocket_backpressure_drops_total",
		Help: "Total number of push events dropped due to backpressure",
	}, []string{"reason"})

	// FeedCompositionDuration records the latency of pure feed composition.
	FeedCompositionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cirqls_feed_composition_duration_seconds",
		Help:    "Time spent composing a feed from fetched rows",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
)

// TrackFeedComposition returns a function that records composition latency
// when called (e.g. defer).
func TrackFeedComposition(scope string) func() {
	start := time.Now()
	return func() {
		FeedCompositionDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	}
}
