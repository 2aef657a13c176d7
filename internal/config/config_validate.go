// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/events"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateSecurity,
		c.validateRecommend,
		c.validateAnalysis,
		c.validateEvents,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.SlowRequestThreshold < 0 {
		return fmt.Errorf("SLOW_REQUEST_THRESHOLD must not be negative")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, production")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; list the allowed origins")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	limits := []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_REQUESTS", c.Security.RateLimitReqs},
		{"SEARCH_RATE_LIMIT_REQUESTS", c.Security.SearchRateLimitReqs},
		{"ANALYZE_RATE_LIMIT_REQUESTS", c.Security.AnalyzeRateLimitReqs},
	}
	for _, l := range limits {
		if l.value < minRateLimitRequests || l.value > maxRateLimitRequests {
			return fmt.Errorf("%s must be between %d and %d", l.name, minRateLimitRequests, maxRateLimitRequests)
		}
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// validateRecommend delegates the pipeline checks to the engine's own
// validation so the two cannot drift apart.
func (c *Config) validateRecommend() error {
	if c.Recommend.SearchCacheTTL < 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must not be negative")
	}
	if c.Recommend.SearchCacheSize < 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must not be negative")
	}
	if err := c.RecommendOptions().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.MinDelay < 0 || a.MaxDelay < a.MinDelay {
		return fmt.Errorf("ANALYSIS_MIN_DELAY must be >= 0 and <= ANALYSIS_MAX_DELAY")
	}
	if a.MaxUploadSize <= 0 {
		return fmt.Errorf("ANALYSIS_MAX_UPLOAD_SIZE must be positive")
	}
	if a.RatePerSecond > 0 && a.Burst < 1 {
		return fmt.Errorf("ANALYSIS_BURST must be at least 1 when rate limiting is on")
	}
	if a.BreakerFailureRatio <= 0 || a.BreakerFailureRatio > 1 {
		return fmt.Errorf("ANALYSIS_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if a.BreakerTimeout <= 0 {
		return fmt.Errorf("ANALYSIS_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	cfg := c.EventsOptions()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if cfg.Transport == events.TransportEmbedded && cfg.EmbeddedPort == c.Server.Port {
		return fmt.Errorf("NATS_EMBEDDED_PORT must differ from HTTP_PORT")
	}
	return nil
}
