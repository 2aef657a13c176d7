// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// fixedSource always returns the same value. 0.5 yields a zero offset for
// both default jitter ranges.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestEngine builds an engine over a single "test" partition.
func newTestEngine(t *testing.T, r RandomSource, titles ...catalog.Title) *Engine {
	t.Helper()

	store, err := catalog.NewStore([]catalog.Partition{{Name: "test", Titles: titles}}, true)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	engine, err := NewEngine(DefaultConfig(), store, testLogger(), WithRandomSource(r))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// newSeedEngine builds an engine over the embedded seed catalog.
func newSeedEngine(t *testing.T, r RandomSource) (*Engine, *catalog.Store) {
	t.Helper()

	store, err := catalog.LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	engine, err := NewEngine(DefaultConfig(), store, testLogger(), WithRandomSource(r))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine, store
}

func title(id int, name string, match int, genres []string, platforms ...string) catalog.Title {
	return catalog.Title{
		ID:              id,
		Title:           name,
		Genres:          genres,
		MatchPercentage: match,
		CommonInterest:  match,
		AvailableOn:     platforms,
	}
}

func ids(titles []catalog.Title) []int {
	out := make([]int, len(titles))
	for i := range titles {
		out[i] = titles[i].ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
