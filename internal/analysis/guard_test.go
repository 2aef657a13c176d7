// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// fakeAnalyzer returns err when set, otherwise genres.
type fakeAnalyzer struct {
	calls  atomic.Int32
	err    error
	genres []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, upload Upload) ([]string, error) {
	f.calls.Add(1)
	if err := upload.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.genres...), nil
}

func testGuardConfig(name string) GuardConfig {
	return GuardConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

func TestGuard_PassThrough(t *testing.T) {
	t.Parallel()

	next := &fakeAnalyzer{genres: []string{"Drama"}}
	g := NewGuard(next, testGuardConfig("test-pass"), zerolog.Nop())

	before := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-pass", "success"))

	genres, err := g.Analyze(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(genres) != 1 || genres[0] != "Drama" {
		t.Errorf("genres = %v", genres)
	}
	if g.State() != "closed" {
		t.Errorf("State() = %q, want closed", g.State())
	}

	after := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-pass", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %v, want 1", after-before)
	}
}

func TestGuard_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	next := &fakeAnalyzer{err: errors.New("parser crashed")}
	g := NewGuard(next, testGuardConfig("test-open"), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := g.Analyze(context.Background(), validUpload())
		if err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: error = %v, want wrapped analyzer failure", i, err)
		}
	}

	if g.State() != "open" {
		t.Fatalf("State() = %q, want open", g.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}

	_, err := g.Analyze(context.Background(), validUpload())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("open breaker error = %v, want ErrUnavailable", err)
	}
	if next.calls.Load() != 3 {
		t.Errorf("wrapped analyzer calls = %d, want 3", next.calls.Load())
	}
}

func TestGuard_IgnoresClientErrors(t *testing.T) {
	t.Parallel()

	next := &fakeAnalyzer{genres: []string{"Action"}}
	g := NewGuard(next, testGuardConfig("test-client"), zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := g.Analyze(context.Background(), Upload{})
		if !errors.Is(err, ErrInvalidUpload) {
			t.Fatalf("error = %v, want ErrInvalidUpload", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocking := NewGuard(NewSimulatedAnalyzer(SimulatedConfig{MinDelay: time.Hour, MaxDelay: time.Hour}),
		testGuardConfig("test-cancel"), zerolog.Nop())
	for i := 0; i < 5; i++ {
		if _, err := blocking.Analyze(ctx, validUpload()); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}

	if g.State() != "closed" || blocking.State() != "closed" {
		t.Errorf("states = %q, %q, want closed", g.State(), blocking.State())
	}
}

func TestGuard_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := testGuardConfig("test-rate")
	cfg.RatePerSecond = 0.001
	cfg.Burst = 2

	next := &fakeAnalyzer{genres: []string{"Comedy"}}
	g := NewGuard(next, cfg, zerolog.Nop())

	before := testutil.ToFloat64(metrics.AnalyzerRequests.WithLabelValues("rate_limited"))

	for i := 0; i < 2; i++ {
		if _, err := g.Analyze(context.Background(), validUpload()); err != nil {
			t.Fatalf("call %d within burst: %v", i, err)
		}
	}
	if _, err := g.Analyze(context.Background(), validUpload()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}
	if next.calls.Load() != 2 {
		t.Errorf("wrapped analyzer calls = %d, want 2", next.calls.Load())
	}

	after := testutil.ToFloat64(metrics.AnalyzerRequests.WithLabelValues("rate_limited"))
	if after-before < 1 {
		t.Errorf("rate_limited counter delta = %v, want >= 1", after-before)
	}
}

func TestGuard_ConfigDefaults(t *testing.T) {
	t.Parallel()

	g := NewGuard(&fakeAnalyzer{}, GuardConfig{}, zerolog.Nop())
	if g.name != "history-analyzer" {
		t.Errorf("name = %q", g.name)
	}
	if g.limiter != nil {
		t.Error("zero rate should disable the limiter")
	}

	d := DefaultGuardConfig()
	if d.RatePerSecond != 2 || d.Burst != 5 || d.MinRequests != 10 || d.FailureRatio != 0.6 {
		t.Errorf("DefaultGuardConfig() = %+v", d)
	}
}

func TestStateConversions(t *testing.T) {
	t.Parallel()

	if stateToString(99) != "unknown" || stateToFloat(99) != -1 {
		t.Error("unknown state conversion")
	}
}
