package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts counts register and login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordhub_auth_attempts_total",
		Help: "Register and login attempts by action and outcome",
	}, []string{"action", "outcome"})

	// GateRejections counts requests refused by the access gate.
	GateRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recordhub_gate_rejections_total",
		Help: "Requests rejected for a missing or invalid bearer token",
	})

	// SearchQueries counts search calls per resource.
	SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordhub_search_queries_total",
		Help: "Search requests by resource",
	}, []string{"resource"})

	// EventsPublished counts domain events sent to Redis.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordhub_events_published_total",
		Help: "Domain events published by type",
	}, []string{"event_type"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recordhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recordhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Outcome maps an error to the label used by AuthAttempts.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
