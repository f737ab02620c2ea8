// Package metrics provides Prometheus instrumentation for the matching
// backend: request counters per endpoint and outcome, a counter for scored
// candidates, and latency histograms for the two match operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts API requests, labeled by endpoint and outcome
	// ("ok" or "error").
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairwise_requests_total",
		Help: "Total number of API requests",
	}, []string{"endpoint", "outcome"})

	// CandidatesScored counts pairwise score computations across all match
	// requests.
	CandidatesScored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pairwise_candidates_scored_total",
		Help: "Total number of candidate scores computed",
	})

	// MatchDuration records single findMatch latency in seconds.
	MatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pairwise_match_duration_seconds",
		Help:    "findMatch request latency in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	// BulkMatchDuration records paginated findAllMatches latency in seconds.
	BulkMatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pairwise_bulk_match_duration_seconds",
		Help:    "findAllMatches request latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		CandidatesScored,
		MatchDuration,
		BulkMatchDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
