// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/supervisor"
)

// EventComponents holds the served-event bus and its consumer.
type EventComponents struct {
	Bus   *events.Bus
	Stats *events.StatsConsumer
}

// initEvents connects the event bus and adds the consumer, and the embedded
// NATS server when used, to the worker layer. It returns nil when events are
// disabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.Config, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*EventComponents, error) {
	if !cfg.Events.Enabled {
		logger.Info().Msg("Served events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("events"))
	bus, err := events.NewBus(cfg.EventsOptions(), wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	if srv := bus.Embedded(); srv != nil {
		tree.AddWorkerService(srv)
		logger.Info().Str("url", srv.ClientURL()).Msg("Embedded NATS server added to supervisor tree")
	}

	stats := events.NewStatsConsumer(bus.Subscriber(), bus.Topic(), logger)
	tree.AddWorkerService(stats)

	logger.Info().
		Str("transport", bus.Transport()).
		Str("topic", bus.Topic()).
		Msg("Served-event bus initialized")

	return &EventComponents{Bus: bus, Stats: stats}, nil
}
