// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Upstream providers (OpenWeatherMap, Nominatim)
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API attempts by outcome",
		},
		[]string{"provider", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API attempts in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	UpstreamBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	CategorySearchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_category_search_failures_total",
			Help: "Category searches that failed and were skipped",
		},
		[]string{"category"},
	)

	// Recommendation engine
	RecommendationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_score",
			Help:    "Distribution of returned recommendation scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: prometheus.LinearBuckets(0, 5, 6),
		},
	)
)

// ObserveRecommendations records the size and score distribution of one response.
func ObserveRecommendations(scores []int) {
	RecommendationsReturned.Observe(float64(len(scores)))
	for _, s := range scores {
		RecommendationScores.Observe(float64(s))
	}
}
