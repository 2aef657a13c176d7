// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_runs_total",
			Help: "Total number of recommendation runs by mode and platform tier",
		},
		[]string{"mode", "tier"}, // mode: ranked, grouped, compact; tier: exact, substring, backfill, cross_platform
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation runs in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"mode"},
	)

	RecommendationResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of titles returned per recommendation run",
			Buckets: []float64{0, 1, 5, 10, 20, 40, 60, 100},
		},
		[]string{"mode"},
	)

	RecommendationBackfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_backfilled_titles_total",
			Help: "Total number of titles added by the platform backfill tier",
		},
	)

	RecommendationEmptyPlatform = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_empty_platform_total",
			Help: "Total number of runs where the platform filter left nothing and cross-platform was suggested",
		},
	)

	// Search Metrics
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of searches by resolved mode",
		},
		[]string{"mode"}, // similar, keyword, none
	)

	SuggestRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_requests_total",
			Help: "Total number of live suggestion lookups by transport",
		},
		[]string{"transport"}, // http, websocket
	)

	// Analyzer Metrics
	AnalyzerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_duration_seconds",
			Help:    "Duration of viewing-history analysis in seconds",
			Buckets: []float64{.1, .25, .5, .8, 1, 1.5, 2, 3, 5},
		},
	)

	AnalyzerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Total number of analysis requests by outcome",
		},
		[]string{"outcome"}, // success, error, invalid, canceled, rate_limited, rejected
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of served-recommendation events published",
		},
		[]string{"kind"},
	)

	EventsPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of event publish failures",
		},
	)

	EventsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events consumed",
		},
	)

	EventsParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_parse_failed_total",
			Help: "Total number of events that failed to parse",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	CatalogTitles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_titles",
			Help: "Number of titles per catalog partition",
		},
		[]string{"partition"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by a rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records a completed recommendation run
func RecordRecommendation(mode, tier string, size, backfilled int, suggestCrossPlatform bool, duration time.Duration) {
	RecommendationRuns.WithLabelValues(mode, tier).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	RecommendationResultSize.WithLabelValues(mode).Observe(float64(size))
	if backfilled > 0 {
		RecommendationBackfilled.Add(float64(backfilled))
	}
	if suggestCrossPlatform {
		RecommendationEmptyPlatform.Inc()
	}
}

// RecordSearch records a search by resolved mode
func RecordSearch(mode string) {
	SearchRequests.WithLabelValues(mode).Inc()
}

// RecordSuggest records a live suggestion lookup
func RecordSuggest(transport string) {
	SuggestRequests.WithLabelValues(transport).Inc()
}

// RecordAnalysis records an analyzer call
func RecordAnalysis(outcome string, duration time.Duration) {
	AnalyzerRequests.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		AnalyzerDuration.Observe(duration.Seconds())
	}
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordEventPublished records a published event or a publish failure
func RecordEventPublished(kind string, err error) {
	if err != nil {
		EventsPublishErrors.Inc()
		return
	}
	EventsPublished.WithLabelValues(kind).Inc()
}

// RecordEventConsumed records a consumed event
func RecordEventConsumed(parsed bool) {
	EventsConsumed.Inc()
	if !parsed {
		EventsParseFailed.Inc()
	}
}

// SetCatalogSize records the title count of a partition
func SetCatalogSize(partition string, titles int) {
	CatalogTitles.WithLabelValues(partition).Set(float64(titles))
}

// StatusLabel converts an HTTP status code to a metric label
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

// SetCacheSize records the current entry count of a named cache
func SetCacheSize(cacheType string, entries int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(entries))
}

// SetAppInfo publishes the running version as a constant 1 gauge
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
