// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api exposes the recommendation engine over HTTP.

Routes (all under /api/v1 unless noted):

	GET  /health/live                 liveness probe
	GET  /health/ready                readiness probe (catalog plus registered checks)
	POST /recommendations             grouped without genres, ranked with them
	POST /recommendations/ranked      flat ranked list
	POST /recommendations/grouped     genre buckets
	POST /recommendations/compact     genre buckets with the compact limits
	GET  /titles/{id}                 one title
	GET  /titles/{id}/similar         similar titles, ?count=
	GET  /catalog/partitions          partitions, genres, platforms, languages
	GET  /languages/classify          ?title=&genres=
	GET  /search                      ?q=&platform=&cross_platform=&languages=
	GET  /search/suggest              ?q=
	GET  /search/suggest/ws           WebSocket suggestions
	POST /analyze                     multipart "file" upload
	GET  /stats/served                aggregated served events, ?top=
	GET  /metrics                     Prometheus (root)
	GET  /swagger/*                   OpenAPI UI (root)

Every JSON response uses the models.APIResponse envelope. Validation
failures return 400 VALIDATION_ERROR, unknown titles 404, and analyzer
back-pressure 429 or 503. Engine runs never fail on empty input: an empty
result is still 200.

After a response that contains titles the handler publishes a served event.
Publishing is best-effort; failures are logged and never change the
response.

Middleware order: request ID, real IP, panic recovery and CORS globally;
metrics, security headers, slow-request logging and gzip on /api/v1; per-IP
rate limits on everything except the probes, with tighter limits on search
and analyze.
*/
package api
