// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main provides the Cinematch HTTP server
//
// @title Cinematch API
// @version 1.0
// @description Streaming title recommendations for individuals and watch groups.
// @description
// @description ## Features
// @description
// @description - **Recommendations**: genre-grouped or ranked titles filtered by language, platform and watch history
// @description - **Search**: best-match similarity search with a keyword fallback
// @description - **Live Suggestions**: type-ahead over HTTP or a WebSocket
// @description - **History Analysis**: upload a viewing history to infer preferred genres
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. Search allows 300 and analysis 10.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cinematch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health probes, catalog partitions and served statistics
//
// @tag.name Recommendations
// @tag.description Ranked, grouped and compact recommendation runs
//
// @tag.name Search
// @tag.description Title search, similar titles and live suggestions
//
// @tag.name Analysis
// @tag.description Viewing-history upload and language classification
package main
