// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package analysis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func validUpload() Upload {
	return Upload{Filename: "history.csv", Size: 2048, ContentType: "text/csv"}
}

func TestUploadValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		upload  Upload
		wantErr bool
	}{
		{"valid", validUpload(), false},
		{"blank filename", Upload{Filename: "  ", Size: 10}, true},
		{"empty file", Upload{Filename: "a.csv"}, true},
		{"negative size", Upload{Filename: "a.csv", Size: -1}, true},
		{"at limit", Upload{Filename: "a.csv", Size: MaxUploadSize}, false},
		{"too large", Upload{Filename: "a.csv", Size: MaxUploadSize + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.upload.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUpload) {
				t.Errorf("error %v should wrap ErrInvalidUpload", err)
			}
		})
	}
}

func TestNewSimulatedAnalyzer_Defaults(t *testing.T) {
	t.Parallel()

	a := NewSimulatedAnalyzer(SimulatedConfig{MinDelay: -time.Second, MaxDelay: -time.Second})
	if a.minDelay != 0 || a.maxDelay != 0 {
		t.Errorf("delays = %v..%v, want 0..0", a.minDelay, a.maxDelay)
	}
	if len(a.genres) != len(DefaultGenres) {
		t.Errorf("genres = %v, want defaults", a.genres)
	}

	cfg := DefaultSimulatedConfig()
	if cfg.MinDelay != 800*time.Millisecond || cfg.MaxDelay != 2*time.Second {
		t.Errorf("default delays = %v..%v", cfg.MinDelay, cfg.MaxDelay)
	}
}

func TestSimulatedAnalyzer_Delay(t *testing.T) {
	t.Parallel()

	a := NewSimulatedAnalyzer(SimulatedConfig{MinDelay: 800 * time.Millisecond, MaxDelay: 2 * time.Second})

	tests := []struct {
		r    float64
		want time.Duration
	}{
		{0, 800 * time.Millisecond},
		{0.5, 1400 * time.Millisecond},
		{0.25, 1100 * time.Millisecond},
	}
	for _, tt := range tests {
		r := tt.r
		a.random = func() float64 { return r }
		if got := a.Delay(); got != tt.want {
			t.Errorf("Delay() with r=%v = %v, want %v", tt.r, got, tt.want)
		}
	}

	collapsed := NewSimulatedAnalyzer(SimulatedConfig{MinDelay: time.Second, MaxDelay: time.Millisecond})
	if got := collapsed.Delay(); got != time.Second {
		t.Errorf("max below min: Delay() = %v, want 1s", got)
	}
}

func TestSimulatedAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	a := NewSimulatedAnalyzer(SimulatedConfig{
		MinDelay: time.Millisecond,
		MaxDelay: 2 * time.Millisecond,
		Genres:   []string{"Comedy", "Romance"},
	})

	genres, err := a.Analyze(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(genres) != 2 || genres[0] != "Comedy" || genres[1] != "Romance" {
		t.Fatalf("genres = %v", genres)
	}

	// Callers own the returned slice.
	genres[0] = "Horror"
	again, err := a.Analyze(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if again[0] != "Comedy" {
		t.Errorf("mutation leaked into analyzer: %v", again)
	}
}

func TestSimulatedAnalyzer_InvalidUpload(t *testing.T) {
	t.Parallel()

	a := NewSimulatedAnalyzer(SimulatedConfig{MinDelay: time.Hour, MaxDelay: time.Hour})

	// Validation happens before the delay.
	_, err := a.Analyze(context.Background(), Upload{})
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("error = %v, want ErrInvalidUpload", err)
	}
}

func TestSimulatedAnalyzer_CancelledMidDelay(t *testing.T) {
	t.Parallel()

	a := NewSimulatedAnalyzer(SimulatedConfig{MinDelay: time.Hour, MaxDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	genres, err := a.Analyze(ctx, validUpload())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if genres != nil {
		t.Errorf("partial genres returned: %v", genres)
	}
}
