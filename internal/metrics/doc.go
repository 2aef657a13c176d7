// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered with the default registry through promauto and are
updated through small Record helpers so callers never touch label ordering.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limited requests (counter)

Recommendation Metrics:
  - recommendation_runs_total: Runs by mode and platform tier (counter)
  - recommendation_duration_seconds: Engine time per run (histogram)
  - recommendation_result_size: Titles returned per run (histogram)
  - recommendation_backfilled_titles_total: Titles added by backfill (counter)
  - recommendation_empty_platform_total: Runs that suggested cross-platform mode (counter)
  - search_requests_total: Searches by mode (counter)
  - suggest_requests_total: Suggestions by transport (counter)

Analyzer Metrics:
  - analyzer_duration_seconds: Simulated analysis latency (histogram)
  - analyzer_requests_total: Calls by outcome (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Calls by result (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)

Event and WebSocket Metrics:
  - events_published_total, events_publish_errors_total, events_consumed_total
  - websocket_connections, websocket_messages_sent_total, websocket_messages_received_total

# Usage

	start := time.Now()
	result, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation(string(result.Mode), string(result.Tier),
	    result.Size(), result.Backfilled, result.SuggestCrossPlatform, time.Since(start))
*/
package metrics
