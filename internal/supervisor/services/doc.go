// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services adapts components with other lifecycles to suture.Service.

Most cinematch workers (the WebSocket hub, the served-stats consumer, the
embedded NATS server, the search cache janitor) already implement
Serve(ctx) error and are added to the tree directly. This package covers
the ones that do not:

  - HTTPServerService: translates http.Server's blocking ListenAndServe and
    Shutdown into a context-aware Serve with a bounded graceful shutdown
*/
package services
