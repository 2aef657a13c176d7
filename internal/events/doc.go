// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package events carries "recommendations served" notifications over Watermill.

Every recommendation, search and similar-titles response is described by a
ServedEvent and published to the recommendations.served topic. Publishing is
best effort: the API logs a failed publish and still answers the caller.

# Transports

The Bus picks its Watermill publisher and subscriber from Config.Transport:

  - channel:  in-process GoChannel pub/sub (default, no external service)
  - nats:     an external NATS server at Config.URL via watermill-nats
  - embedded: an in-process nats-server started by the Bus itself

NATS transports use core NATS subjects rather than JetStream streams; served
events are statistics, so at-most-once delivery is enough.

# Consumers

StatsConsumer subscribes to the topic and keeps running totals per kind,
platform and title. It runs as a supervised service and backs the
/api/v1/stats/served endpoint.
*/
package events
