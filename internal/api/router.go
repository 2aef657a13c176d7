// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/models"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware

	// slowRequestThreshold logs slower requests; zero disables the check.
	slowRequestThreshold time.Duration
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware, slowRequestThreshold time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:              handler,
		chiMiddleware:        mw,
		slowRequestThreshold: slowRequestThreshold,
	}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeBadRequest, "Method not allowed", nil)
	})

	h := router.handler

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(APISecurityHeaders())
		r.Use(middleware.SlowRequests(router.slowRequestThreshold))
		r.Use(middleware.Compression)

		// Probes bypass the rate limiter.
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Route("/recommendations", func(r chi.Router) {
				r.Post("/", h.Recommendations)
				r.Post("/ranked", h.RecommendationsRanked)
				r.Post("/grouped", h.RecommendationsGrouped)
				r.Post("/compact", h.RecommendationsCompact)
			})

			r.Get("/titles/{id}", h.Title)
			r.Get("/titles/{id}/similar", h.Similar)
			r.Get("/catalog/partitions", h.Partitions)
			r.Get("/languages/classify", h.Classify)
			r.Get("/stats/served", h.ServedStats)

			r.Route("/search", func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitSearch())
				r.Get("/", h.Search)
				r.Get("/suggest", h.Suggest)
				r.Get("/suggest/ws", h.SuggestSocket)
			})

			r.With(router.chiMiddleware.RateLimitAnalyze()).Post("/analyze", h.Analyze)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
