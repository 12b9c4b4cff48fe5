// Package metrics provides Prometheus metrics for the matching service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks served HTTP requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastematch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	// HTTPRequestDuration tracks HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastematch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route", "method"},
	)

	// MatchScoresComputed counts pairwise scorings performed
	MatchScoresComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tastematch",
			Subsystem: "matching",
			Name:      "scores_computed_total",
			Help:      "Total number of pairwise profile scorings",
		},
	)

	// MatchPercent tracks the distribution of computed match percentages
	MatchPercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tastematch",
			Subsystem: "matching",
			Name:      "match_percent",
			Help:      "Distribution of computed match percentages",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// CandidatesScanned tracks how many candidates one match search scored
	CandidatesScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tastematch",
			Subsystem: "matching",
			Name:      "candidates_scanned",
			Help:      "Number of candidate profiles scored per match search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// ProfilesSavedTotal counts profiles built and stored
	ProfilesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tastematch",
			Subsystem: "profiles",
			Name:      "saved_total",
			Help:      "Total number of taste profiles built and saved",
		},
	)
)

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(route, method, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordMatchScore records one computed pairwise score
func RecordMatchScore(percent int) {
	MatchScoresComputed.Inc()
	MatchPercent.Observe(float64(percent))
}
