// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the HTTP middleware shared by every API route.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    request context for logging.Ctx
  - PrometheusMetrics: request counts, latency and in-flight gauge labelled
    by the chi route pattern
  - Compression: gzip for clients that accept it, skipped for WebSocket
    upgrades
  - SlowRequests: warns about requests slower than a threshold

All middleware has the func(http.Handler) http.Handler shape so it can be
passed straight to chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
	r.Use(middleware.SlowRequests(time.Second))

Response writers used by this package forward http.Hijacker and
http.Flusher, which the WebSocket upgrade depends on.
*/
package middleware
