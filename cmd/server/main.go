// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/cinematch/docs" // registers the swagger document
	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
	ws "github.com/tomtom215/cinematch/internal/websocket"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingOptions())
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Cinematch")

	metrics.SetAppInfo(version)

	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows any origin; set CORS_ORIGINS before exposing the server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	rec, err := initRecommend(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	tree.AddWorkerService(rec.SearchCache)

	evts, err := initEvents(cfg, logger, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize served events")
	}

	hub := ws.NewHub(logger)
	tree.AddWorkerService(hub)

	handlerCfg := api.HandlerConfig{
		Engine:         rec.Engine,
		Catalog:        rec.Catalog,
		Analyzer:       rec.Analyzer,
		Hub:            hub,
		AllowedOrigins: cfg.Security.CORSOrigins,
		MaxUploadSize:  cfg.Analysis.MaxUploadSize,
		Version:        version,
		Logger:         logger,
		Checks:         map[string]api.ReadinessCheck{},
	}
	if evts != nil {
		handlerCfg.Publisher = evts.Bus
		handlerCfg.Stats = evts.Stats
		if srv := evts.Bus.Embedded(); srv != nil {
			handlerCfg.Checks["nats"] = api.RunningCheck(srv.IsRunning)
		}
	}

	handler, err := api.NewHandler(handlerCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwCfg.SearchRateLimitRequests = cfg.Security.SearchRateLimitReqs
	mwCfg.AnalyzeRateLimitRequests = cfg.Security.AnalyzeRateLimitReqs

	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg), cfg.Server.SlowRequestThreshold)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logger.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if evts != nil {
		if err := evts.Bus.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing event bus")
		}
	}

	logger.Info().Msg("Cinematch stopped")
}
