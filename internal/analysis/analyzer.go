// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package analysis

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// MaxUploadSize bounds accepted history files.
const MaxUploadSize int64 = 10 << 20

var (
	// ErrInvalidUpload is returned for uploads with no name or an out of range size.
	ErrInvalidUpload = errors.New("invalid history upload")

	// ErrUnavailable is returned while the analyzer is shedding load.
	ErrUnavailable = errors.New("history analyzer unavailable")

	// ErrRateLimited is returned when the request rate exceeds the configured limit.
	ErrRateLimited = errors.New("history analyzer rate limit exceeded")
)

// Upload describes an uploaded history file. The content is opaque.
type Upload struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// Validate checks the upload metadata.
func (u Upload) Validate() error {
	if strings.TrimSpace(u.Filename) == "" {
		return fmt.Errorf("%w: missing filename", ErrInvalidUpload)
	}
	if u.Size <= 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	if u.Size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidUpload, u.Size, MaxUploadSize)
	}
	return nil
}

// Analyzer infers genre names from an uploaded viewing history.
type Analyzer interface {
	Analyze(ctx context.Context, upload Upload) ([]string, error)
}

// DefaultGenres is the genre list reported by the simulated analyzer.
var DefaultGenres = []string{"Action", "Sci-Fi", "Thriller", "Drama"}

// SimulatedConfig configures SimulatedAnalyzer.
type SimulatedConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Genres   []string
}

// DefaultSimulatedConfig returns an 800 ms to 2 s delay and DefaultGenres.
func DefaultSimulatedConfig() SimulatedConfig {
	return SimulatedConfig{
		MinDelay: 800 * time.Millisecond,
		MaxDelay: 2 * time.Second,
		Genres:   append([]string(nil), DefaultGenres...),
	}
}

// SimulatedAnalyzer waits a random delay and returns a fixed genre list.
type SimulatedAnalyzer struct {
	minDelay time.Duration
	maxDelay time.Duration
	genres   []string
	random   func() float64
}

// NewSimulatedAnalyzer builds an analyzer. Negative delays are treated as zero,
// a max below min collapses to min, and an empty genre list uses DefaultGenres.
func NewSimulatedAnalyzer(cfg SimulatedConfig) *SimulatedAnalyzer {
	minDelay := max(cfg.MinDelay, 0)
	maxDelay := max(cfg.MaxDelay, minDelay)

	genres := cfg.Genres
	if len(genres) == 0 {
		genres = DefaultGenres
	}

	return &SimulatedAnalyzer{
		minDelay: minDelay,
		maxDelay: maxDelay,
		genres:   append([]string(nil), genres...),
		random:   rand.Float64, //nolint:gosec // latency simulation, not security sensitive
	}
}

// Delay returns the next simulated processing time.
func (a *SimulatedAnalyzer) Delay() time.Duration {
	span := a.maxDelay - a.minDelay
	if span <= 0 {
		return a.minDelay
	}
	return a.minDelay + time.Duration(a.random()*float64(span))
}

// Analyze validates the upload, waits, and returns a copy of the genre list.
func (a *SimulatedAnalyzer) Analyze(ctx context.Context, upload Upload) ([]string, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(a.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return append([]string(nil), a.genres...), nil
}
