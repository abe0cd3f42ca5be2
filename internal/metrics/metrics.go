package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Price cache metrics
var (
	PriceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_hits_total",
			Help: "Price cache lookups answered from a city snapshot",
		},
		[]string{"city"},
	)

	PriceCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_misses_total",
			Help: "Price cache lookups with no cached value",
		},
		[]string{"city"},
	)

	PriceCacheRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_refreshes_total",
			Help: "Completed price cache snapshot refreshes",
		},
		[]string{"city"},
	)
)

// Business metrics
var (
	RecommendationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_computed_total",
			Help: "Recommendation computations by kind (farming, crafting, summary)",
		},
		[]string{"kind"},
	)

	PricesUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prices_upserted_total",
			Help: "Price upserts by city",
		},
		[]string{"city"},
	)
)
