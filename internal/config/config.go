// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Events    EventsConfig    `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SlowRequestThreshold logs requests slower than this. Zero disables it.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs per RateLimitWindow applies to every API route.
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// SearchRateLimitReqs applies per window to search and suggest.
	SearchRateLimitReqs int `koanf:"search_rate_limit_requests"`

	// AnalyzeRateLimitReqs applies per window to history uploads.
	AnalyzeRateLimitReqs int `koanf:"analyze_rate_limit_requests"`
}

// CatalogConfig selects the catalog source.
type CatalogConfig struct {
	// Partitions merged for every run, in order. Empty means all.
	Partitions []string `koanf:"partitions"`

	// File replaces the embedded seed catalog when set.
	File string `koanf:"file"`

	// NormalizeRatings rescales 0-5 partitions to 0-10.
	NormalizeRatings bool `koanf:"normalize_ratings"`
}

// RecommendConfig holds the tunable engine settings. The pipeline constants
// stay in recommend.DefaultConfig.
type RecommendConfig struct {
	// Seed for shuffle and jitter. Zero seeds from the clock.
	Seed int64 `koanf:"seed"`

	DefaultCount int `koanf:"default_count"`
	MaxCount     int `koanf:"max_count"`

	SearchCacheTTL     time.Duration `koanf:"search_cache_ttl"`
	SearchCacheSize    int           `koanf:"search_cache_size"`
	SearchCacheCleanup time.Duration `koanf:"search_cache_cleanup"`
}

// AnalysisConfig configures the viewing-history analyzer and its guard.
type AnalysisConfig struct {
	MinDelay time.Duration `koanf:"min_delay"`
	MaxDelay time.Duration `koanf:"max_delay"`
	Genres   []string      `koanf:"genres"`

	// MaxUploadSize bounds multipart uploads in bytes.
	MaxUploadSize int64 `koanf:"max_upload_size"`

	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// EventsConfig configures served-event publishing.
type EventsConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Transport     string        `koanf:"transport"`
	Topic         string        `koanf:"topic"`
	URL           string        `koanf:"url"`
	EmbeddedHost  string        `koanf:"embedded_host"`
	EmbeddedPort  int           `koanf:"embedded_port"`
	QueueGroup    string        `koanf:"queue_group"`
	BufferSize    int64         `koanf:"buffer_size"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	opts := logging.DefaultConfig()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	opts.Caller = c.Logging.Caller
	return opts
}

// RecommendOptions returns the engine configuration: the default pipeline
// constants with the configured partitions, seed and limits.
func (c *Config) RecommendOptions() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Partitions = append([]string(nil), c.Catalog.Partitions...)
	cfg.Seed = c.Recommend.Seed
	cfg.Limits.DefaultCount = c.Recommend.DefaultCount
	cfg.Limits.MaxCount = c.Recommend.MaxCount
	return cfg
}

// AnalyzerOptions converts the analyzer delays and genres.
func (c *Config) AnalyzerOptions() analysis.SimulatedConfig {
	return analysis.SimulatedConfig{
		MinDelay: c.Analysis.MinDelay,
		MaxDelay: c.Analysis.MaxDelay,
		Genres:   append([]string(nil), c.Analysis.Genres...),
	}
}

// GuardOptions converts the limiter and breaker settings.
func (c *Config) GuardOptions() analysis.GuardConfig {
	cfg := analysis.DefaultGuardConfig()
	cfg.RatePerSecond = c.Analysis.RatePerSecond
	cfg.Burst = c.Analysis.Burst
	cfg.MaxRequests = c.Analysis.BreakerMaxRequests
	cfg.Interval = c.Analysis.BreakerInterval
	cfg.Timeout = c.Analysis.BreakerTimeout
	cfg.MinRequests = c.Analysis.BreakerMinRequests
	cfg.FailureRatio = c.Analysis.BreakerFailureRatio
	return cfg
}

// EventsOptions converts the events section for events.NewBus.
func (c *Config) EventsOptions() events.Config {
	return events.Config{
		Transport:     c.Events.Transport,
		Topic:         c.Events.Topic,
		URL:           c.Events.URL,
		EmbeddedHost:  c.Events.EmbeddedHost,
		EmbeddedPort:  c.Events.EmbeddedPort,
		QueueGroup:    c.Events.QueueGroup,
		BufferSize:    c.Events.BufferSize,
		MaxReconnects: c.Events.MaxReconnects,
		ReconnectWait: c.Events.ReconnectWait,
		CloseTimeout:  c.Events.CloseTimeout,
	}
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
