// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived cinematch services under suture v4.

# Overview

Services are split into two layers so that a failing background worker is
restarted without touching the HTTP server:

	RootSupervisor ("cinematch")
	├── WorkerSupervisor ("worker-layer")
	│   ├── nats-embedded           (EVENTS_TRANSPORT=embedded)
	│   ├── served-stats-consumer   (events enabled)
	│   ├── cache-janitor           (search cache)
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    └── http-server

Any type with Serve(ctx) error is a service; implementing fmt.Stringer names
it in the supervisor logs. Returning an error wrapping suture.ErrDoNotRestart
stops a service for good.

# Logging

Supervisor events (restarts, backoff, panics) go through sutureslog to a
*slog.Logger. Pass logging.NewSlogLogger("supervisor") so they land in the
zerolog stream with everything else.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddWorkerService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
