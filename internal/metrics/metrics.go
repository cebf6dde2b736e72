package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rift_rewind"

var (
	// Ingestion
	GamesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_fetched_total",
			Help:      "Match payloads fetched from the game-data API",
		},
	)

	GamesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_persisted_total",
			Help:      "Normalized game records written to object storage",
		},
	)

	GamesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_skipped_total",
			Help:      "Games skipped during ingestion",
		},
		[]string{"reason"}, // "fetch", "normalize"
	)

	RateLimitRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_retries_total",
			Help:      "Retries caused by upstream throttling",
		},
		[]string{"operation"},
	)

	// Upstream HTTP
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outbound requests by upstream and status",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream", "status"},
	)

	// Runs
	RunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Pipeline runs accepted",
		},
	)

	RunsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Pipeline runs by terminal outcome",
		},
		[]string{"outcome"}, // "complete", "fail", "busy"
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 180, 600, 1800},
		},
		[]string{"stage"},
	)

	ActiveRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_runs",
			Help:      "Runs currently executing in this process",
		},
	)

	// Observers
	ObserverConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observer_connections",
			Help:      "Open WebSocket observer connections",
		},
	)
)

// ObserveUpstream records one outbound call. status is the HTTP code or
// "error" when no response arrived.
func ObserveUpstream(upstream, status string, started time.Time) {
	UpstreamRequestDuration.WithLabelValues(upstream, status).Observe(time.Since(started).Seconds())
}

// ObserveStage records a stage duration.
func ObserveStage(stage string, started time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
