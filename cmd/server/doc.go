// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Command server runs the Cinematch recommendation API.

Startup order:

 1. Load configuration (defaults, optional YAML file, environment variables).
 2. Initialize zerolog and the slog bridge used by suture and watermill.
 3. Build the supervisor tree.
 4. Load the catalog, build the search cache, the engine and the guarded
    analyzer.
 5. Connect the served-event bus when EVENTS_ENABLED is true. EVENTS_TRANSPORT
    selects an in-process channel, an embedded NATS server, or an external
    NATS server at NATS_URL.
 6. Wire the HTTP handler, chi router and middleware.
 7. Serve until SIGINT or SIGTERM, then stop services in reverse layer order.

Supervisor layout:

	RootSupervisor
	├── WorkerSupervisor
	│   ├── search cache janitor
	│   ├── embedded NATS server (optional)
	│   ├── served-event stats consumer (optional)
	│   └── websocket hub
	└── APISupervisor
	    └── HTTP server

Configuration is documented in internal/config. The API is documented at
/swagger/index.html once the server is running.
*/
package main
