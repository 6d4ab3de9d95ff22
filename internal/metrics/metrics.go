// Package metrics declares the Prometheus collectors solidflix exports on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests counts engine invocations by outcome reason.
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendDuration observes end-to-end engine latency.
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solidflix_recommend_duration_seconds",
			Help:    "Time spent producing a recommendation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// CandidatePoolSize observes the number of unique candidates before sampling.
	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solidflix_candidate_pool_size",
			Help:    "Unique candidate titles before sampling",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 13, 21, 34},
		},
	)

	// TitleSources counts requested titles by the path that served them.
	TitleSources = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_title_source_total",
			Help: "Requested titles by source (catalog or fallback)",
		},
		[]string{"source"},
	)

	// TMDBRequests counts TMDB API calls by endpoint and result.
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_tmdb_requests_total",
			Help: "TMDB API requests by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	// CircuitBreakerState reports 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "solidflix_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// TitleCacheLookups counts title cache hits and misses.
	TitleCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_title_cache_lookups_total",
			Help: "Title cache lookups by result",
		},
		[]string{"result"},
	)

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solidflix_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)
