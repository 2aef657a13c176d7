// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides the zerolog-based structured logger used across Cinematch.
//
// A single global logger is configured once at startup from the LOG_* settings and
// shared by every component. Components derive child loggers with a fixed
// "component" field instead of building their own writers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logger := logging.WithComponent("recommend")
//	logger.Info().Int("titles", n).Msg("Catalog merged")
//
// # Request Scoped Logging
//
// The HTTP layer stores a request ID in the context. Ctx returns a logger that
// carries it, so log lines written deep inside a handler can be joined back to the
// access log:
//
//	ctx = logging.ContextWithRequestID(ctx, id)
//	logging.Ctx(ctx).Warn().Err(err).Msg("Analyzer unavailable")
//
// WebSocket suggestion sessions use a session ID in the same way.
//
// # slog Bridge
//
// Libraries that accept a *slog.Logger (the suture supervisor tree and the
// watermill event bus) receive NewSlogLogger, which forwards records to zerolog so
// every line in the process shares one format.
//
// # Output
//
// Format "json" writes one object per line with the fields time, level, message,
// error and caller. Format "console" writes human readable lines for development.
// Setting FUZZ_MODE=1 raises the default level to fatal.
package logging
