// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/events"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	analyzer := analysis.DefaultSimulatedConfig()
	guard := analysis.DefaultGuardConfig()
	bus := events.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 8080,
			ReadTimeout:          15 * time.Second,
			WriteTimeout:         30 * time.Second,
			IdleTimeout:          60 * time.Second,
			ShutdownTimeout:      10 * time.Second,
			SlowRequestThreshold: time.Second,
			Environment:          "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSOrigins:          []string{"*"},
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			SearchRateLimitReqs:  300,
			AnalyzeRateLimitReqs: 10,
		},
		Catalog: CatalogConfig{
			Partitions:       []string{},
			NormalizeRatings: true,
		},
		Recommend: RecommendConfig{
			Seed:               0,
			DefaultCount:       20,
			MaxCount:           100,
			SearchCacheTTL:     5 * time.Minute,
			SearchCacheSize:    1000,
			SearchCacheCleanup: time.Minute,
		},
		Analysis: AnalysisConfig{
			MinDelay:            analyzer.MinDelay,
			MaxDelay:            analyzer.MaxDelay,
			Genres:              analyzer.Genres,
			MaxUploadSize:       analysis.MaxUploadSize,
			RatePerSecond:       guard.RatePerSecond,
			Burst:               guard.Burst,
			BreakerMaxRequests:  guard.MaxRequests,
			BreakerInterval:     guard.Interval,
			BreakerTimeout:      guard.Timeout,
			BreakerMinRequests:  guard.MinRequests,
			BreakerFailureRatio: guard.FailureRatio,
		},
		Events: EventsConfig{
			Enabled:       true,
			Transport:     bus.Transport,
			Topic:         bus.Topic,
			URL:           bus.URL,
			EmbeddedHost:  bus.EmbeddedHost,
			EmbeddedPort:  bus.EmbeddedPort,
			QueueGroup:    bus.QueueGroup,
			BufferSize:    bus.BufferSize,
			MaxReconnects: bus.MaxReconnects,
			ReconnectWait: bus.ReconnectWait,
			CloseTimeout:  bus.CloseTimeout,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, in that order of precedence, and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"catalog.partitions",
	"analysis.genres",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	"http_host":              "server.host",
	"http_port":              "server.port",
	"http_read_timeout":      "server.read_timeout",
	"http_write_timeout":     "server.write_timeout",
	"http_idle_timeout":      "server.idle_timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"slow_request_threshold": "server.slow_request_threshold",
	"environment":            "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"cors_origins":                "security.cors_origins",
	"rate_limit_requests":         "security.rate_limit_requests",
	"rate_limit_window":           "security.rate_limit_window",
	"disable_rate_limit":          "security.rate_limit_disabled",
	"search_rate_limit_requests":  "security.search_rate_limit_requests",
	"analyze_rate_limit_requests": "security.analyze_rate_limit_requests",

	"catalog_partitions":        "catalog.partitions",
	"catalog_file":              "catalog.file",
	"catalog_normalize_ratings": "catalog.normalize_ratings",

	"recommend_seed":          "recommend.seed",
	"recommend_default_count": "recommend.default_count",
	"recommend_max_count":     "recommend.max_count",
	"search_cache_ttl":        "recommend.search_cache_ttl",
	"search_cache_size":       "recommend.search_cache_size",

	"analysis_min_delay":             "analysis.min_delay",
	"analysis_max_delay":             "analysis.max_delay",
	"analysis_genres":                "analysis.genres",
	"analysis_max_upload_size":       "analysis.max_upload_size",
	"analysis_rate_per_second":       "analysis.rate_per_second",
	"analysis_burst":                 "analysis.burst",
	"analysis_breaker_timeout":       "analysis.breaker_timeout",
	"analysis_breaker_failure_ratio": "analysis.breaker_failure_ratio",

	"events_enabled":       "events.enabled",
	"events_transport":     "events.transport",
	"events_topic":         "events.topic",
	"nats_url":             "events.url",
	"nats_embedded_host":   "events.embedded_host",
	"nats_embedded_port":   "events.embedded_port",
	"nats_queue_group":     "events.queue_group",
	"events_buffer_size":   "events.buffer_size",
	"nats_max_reconnects":  "events.max_reconnects",
	"nats_reconnect_wait":  "events.reconnect_wait",
	"events_close_timeout": "events.close_timeout",
}

// envTransformFunc maps a variable name to its koanf path. Unmapped names
// return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_PARTITIONS -> catalog.partitions
//   - NATS_URL -> events.url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
