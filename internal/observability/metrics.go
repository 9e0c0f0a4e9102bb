package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts lifecycle transition attempts by request kind,
	// target status, and outcome (applied, rejected, conflict).
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docmanager_transitions_total",
		Help: "Total lifecycle transition attempts by kind, target, and outcome",
	}, []string{"kind", "target", "outcome"})

	// EffectFailuresTotal counts side-effect delivery failures by effect kind.
	EffectFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docmanager_effect_failures_total",
		Help: "Total side-effect delivery failures by effect kind",
	}, []string{"effect"})

	// EmailSendLatency records email dispatch latency in seconds.
	EmailSendLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docmanager_email_send_latency_seconds",
		Help:    "Email dispatch latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// NotificationsPruned counts notifications removed by the retention sweep.
	NotificationsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docmanager_notifications_pruned_total",
		Help: "Total notifications removed by the retention sweep",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docmanager_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docmanager_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// Outcome labels for TransitionsTotal.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
)

// TrackQuery returns a function that records query latency when called
// (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
