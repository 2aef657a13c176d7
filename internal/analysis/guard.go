// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// GuardConfig configures the limiter and circuit breaker around an Analyzer.
type GuardConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// RatePerSecond is the sustained request rate; zero or less disables limiting.
	RatePerSecond float64
	Burst         int

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts; Timeout is the open-state cool down.
	Interval time.Duration
	Timeout  time.Duration

	// The breaker opens once MinRequests calls were seen and the failure
	// ratio reaches FailureRatio.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultGuardConfig returns 2 requests per second with a burst of 5, and a
// breaker that opens at 60% failures over at least 10 calls.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Name:          "history-analyzer",
		RatePerSecond: 2,
		Burst:         5,
		MaxRequests:   3,
		Interval:      time.Minute,
		Timeout:       30 * time.Second,
		MinRequests:   10,
		FailureRatio:  0.6,
	}
}

// Guard is an Analyzer that sheds load before reaching the wrapped one.
type Guard struct {
	next    Analyzer
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]string]
	name    string
	logger  zerolog.Logger
}

// NewGuard wraps next.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewGuard(next Analyzer, cfg GuardConfig, logger zerolog.Logger) *Guard {
	if cfg.Name == "" {
		cfg.Name = "history-analyzer"
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 1
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = 0.6
	}

	g := &Guard{
		next:   next,
		name:   cfg.Name,
		logger: logger.With().Str("component", "analysis").Str("breaker", cfg.Name).Logger(),
	}

	if cfg.RatePerSecond > 0 {
		burst := max(cfg.Burst, 1)
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				g.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening analyzer circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			g.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Analyzer circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		// Invalid uploads and abandoned requests say nothing about analyzer health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrInvalidUpload) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
	})

	return g
}

// Analyze applies the limiter, then runs the wrapped analyzer through the breaker.
func (g *Guard) Analyze(ctx context.Context, upload Upload) ([]string, error) {
	start := time.Now()

	if g.limiter != nil && !g.limiter.Allow() {
		metrics.RecordAnalysis("rate_limited", 0)
		return nil, ErrRateLimited
	}

	genres, err := g.cb.Execute(func() ([]string, error) {
		return g.next.Analyze(ctx, upload)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
			metrics.RecordAnalysis("rejected", 0)
			g.logger.Warn().Err(err).Msg("Analyzer request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		case errors.Is(err, ErrInvalidUpload):
			metrics.RecordAnalysis("invalid", 0)
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			metrics.RecordAnalysis("canceled", 0)
			return nil, err
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
			metrics.RecordAnalysis("error", 0)
			return nil, fmt.Errorf("analyze history: %w", err)
		}
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)
	metrics.RecordAnalysis("success", time.Since(start))
	return genres, nil
}

// State reports the breaker state: closed, half-open or open.
func (g *Guard) State() string {
	return stateToString(g.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
