// Package telemetry provides logging and Prometheus instrumentation for the
// prediction service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SlatesServed counts assembled prediction slates, partitioned by league
	// and by whether they came from cache.
	SlatesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeboard_slates_served_total",
		Help: "Prediction slates served",
	}, []string{"league", "source"})

	// SlateBuildDuration tracks how long a full fetch+score pass takes.
	SlateBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "edgeboard_slate_build_seconds",
		Help:    "Time to build one league/date slate",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"league"})

	// ProviderRequests counts upstream HTTP calls by provider and outcome
	// ("ok", "retry", "error").
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeboard_provider_requests_total",
		Help: "Upstream provider HTTP requests",
	}, []string{"provider", "outcome"})

	// PicksEmitted counts non-pass picks by league and tier.
	PicksEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeboard_picks_total",
		Help: "Picks emitted (excludes passes)",
	}, []string{"league", "tier"})

	// ScoringRuns counts grading runs by league and result.
	ScoringRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edgeboard_scoring_runs_total",
		Help: "Grading runs",
	}, []string{"league", "result"})

	// FanoutClients tracks connected dashboard WebSocket clients.
	FanoutClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "edgeboard_fanout_clients",
		Help: "Connected fanout WebSocket clients",
	})
)

// MetricsHandler returns the Prometheus scrape endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
