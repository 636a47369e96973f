package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequests counts search outcomes per strategy ("ingredients",
	// "filters", "semantic") and outcome ("success" or an error code).
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_search_requests_total",
			Help: "Total number of search requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipefinder_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	SemanticRejectedCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipefinder_semantic_rejected_candidates_total",
			Help: "Total number of LLM recipe candidates dropped by validation",
		},
	)

	SemanticCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_semantic_cache_lookups_total",
			Help: "Semantic result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// LLM Metrics
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipefinder_llm_request_duration_seconds",
			Help:    "Duration of LLM completion calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipefinder_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Favorite Metrics
	FavoriteOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipefinder_favorite_operations_total",
			Help: "Favorite operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	RecipesMaterialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipefinder_recipes_materialized_total",
			Help: "LLM recipes persisted on first favorite",
		},
	)
)

// RecordSearch records one search outcome and its latency.
func RecordSearch(strategy, outcome string, duration time.Duration) {
	SearchRequests.WithLabelValues(strategy, outcome).Inc()
	SearchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordLLMRequest records one completion call.
func RecordLLMRequest(provider string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMRequestDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
}

// RecordFavorite records one favorite operation outcome.
func RecordFavorite(operation, outcome string) {
	FavoriteOperations.WithLabelValues(operation, outcome).Inc()
}
