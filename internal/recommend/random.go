// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// RandomSource yields floats in [0, 1). It drives shuffling and jitter.
type RandomSource interface {
	Float64() float64
}

// lockedSource is a math/rand generator safe for concurrent requests.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a RandomSource seeded with seed. Zero seeds from the clock.
func NewSeededSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation shuffling
	}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// randomOffset draws a uniform integer in [lo, hi].
func randomOffset(r RandomSource, lo, hi int) int {
	f := r.Float64()
	if f < 0 {
		f = 0
	}
	offset := lo + int(math.Floor(f*float64(hi-lo+1)))
	if offset > hi {
		offset = hi
	}
	return offset
}

// shuffle permutes titles in place (Fisher-Yates).
func shuffle(r RandomSource, titles []catalog.Title) {
	for i := len(titles) - 1; i > 0; i-- {
		j := int(r.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		titles[i], titles[j] = titles[j], titles[i]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
