// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config loads and validates the cinematch service configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Defaults built into defaultConfig
 2. An optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths
 3. Environment variables listed in envMappings

Unknown environment variables are ignored so that the process environment
cannot pollute the configuration. Comma-separated values become slices for
the keys in sliceConfigPaths.

Sections:

  - server: listen address, HTTP timeouts, slow request threshold
  - logging: level, format, caller
  - security: CORS origins and per-IP rate limits
  - catalog: merged partitions, optional catalog file, rating normalisation
  - recommend: seed, default and maximum counts, search cache
  - analysis: simulated analyzer delays and genres, limiter and breaker
  - events: served-event transport and topic

Example config.yaml:

	server:
	  port: 8080
	logging:
	  level: debug
	  format: console
	catalog:
	  partitions: [core, expanded]
	events:
	  transport: embedded

The same settings through the environment:

	HTTP_PORT=8080 LOG_LEVEL=debug CATALOG_PARTITIONS=core,expanded EVENTS_TRANSPORT=embedded

Each section converts to the options type of the package it configures, e.g.
Config.RecommendConfig or Config.EventsConfig, so the rest of the service
never reads koanf directly.
*/
package config
