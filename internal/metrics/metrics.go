// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupStale = "stale"
	LookupError = "error"
)

var (
	// Recipe cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_lookups_total",
			Help: "Recipe cache lookups by result",
		},
		[]string{"result"}, // hit, miss, stale, error
	)

	CacheSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_saves_total",
			Help: "Recipe cache upserts by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	// Upstream provider
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_provider_requests_total",
			Help: "Requests to the remote recipe provider by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_provider_request_duration_seconds",
			Help:    "Latency of remote recipe provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Matching
	RecipesCategorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipes_categorized_total",
			Help: "Scored recipes by assigned bucket",
		},
		[]string{"bucket"}, // exact, one_missing, other, dropped
	)
)
