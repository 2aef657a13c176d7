// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	ws "github.com/tomtom215/cinematch/internal/websocket"
)

// Publisher sends served-recommendation events. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, event *events.ServedEvent) error
}

// StatsSource exposes aggregated served events. *events.StatsConsumer
// implements it.
type StatsSource interface {
	Snapshot(top int) events.ServedStats
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HandlerConfig holds the handler dependencies. Engine and Catalog are
// required; the rest are optional and their endpoints degrade when absent.
type HandlerConfig struct {
	Engine    *recommend.Engine
	Catalog   *catalog.Store
	Analyzer  analysis.Analyzer
	Publisher Publisher
	Stats     StatsSource
	Hub       *ws.Hub

	// AllowedOrigins gates WebSocket upgrades. "*" allows any origin.
	AllowedOrigins []string

	// MaxUploadSize bounds history uploads. Zero uses analysis.MaxUploadSize.
	MaxUploadSize int64

	Version string
	Checks  map[string]ReadinessCheck
	Logger  zerolog.Logger
}

// Handler serves the HTTP API.
type Handler struct {
	engine    *recommend.Engine
	catalog   *catalog.Store
	analyzer  analysis.Analyzer
	publisher Publisher
	stats     StatsSource
	hub       *ws.Hub

	upgrader      websocket.Upgrader
	maxUploadSize int64
	version       string
	checks        map[string]ReadinessCheck
	logger        zerolog.Logger
	startTime     time.Time
}

// NewHandler validates cfg and returns a handler.
//
//nolint:gocritic // hugeParam: config passed by value once at startup
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("api: catalog is required")
	}

	maxUpload := cfg.MaxUploadSize
	if maxUpload <= 0 {
		maxUpload = analysis.MaxUploadSize
	}

	logger := cfg.Logger.With().Str("component", "api").Logger()

	return &Handler{
		engine:        cfg.Engine,
		catalog:       cfg.Catalog,
		analyzer:      cfg.Analyzer,
		publisher:     cfg.Publisher,
		stats:         cfg.Stats,
		hub:           cfg.Hub,
		upgrader:      getUpgrader(cfg.AllowedOrigins, logger),
		maxUploadSize: maxUpload,
		version:       cfg.Version,
		checks:        cfg.Checks,
		logger:        logger,
		startTime:     time.Now(),
	}, nil
}

//nolint:gocritic // zerolog.Logger is passed by value
func getUpgrader(allowedOrigins []string, logger zerolog.Logger) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			if checkWebSocketOrigin(r.Header.Get("Origin"), allowedOrigins) {
				return true
			}
			logger.Warn().
				Str("origin", sanitizeLogValue(r.Header.Get("Origin"))).
				Msg("WebSocket upgrade rejected: origin not allowed")
			return false
		},
	}
}

// checkWebSocketOrigin allows requests without an Origin header, since
// non-browser clients do not send one.
func checkWebSocketOrigin(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// publishServed sends a served event. Failures are logged and never reach
// the caller.
func (h *Handler) publishServed(r *http.Request, event *events.ServedEvent) {
	if h.publisher == nil || len(event.TitleIDs) == 0 {
		return
	}
	event.RequestID = logging.RequestIDFromContext(r.Context())

	// The event outlives a canceled request.
	ctx := context.WithoutCancel(r.Context())
	if err := h.publisher.Publish(ctx, event); err != nil {
		logging.Ctx(r.Context()).Warn().
			Err(err).
			Str("kind", event.Kind).
			Msg("Failed to publish served event")
	}
}
