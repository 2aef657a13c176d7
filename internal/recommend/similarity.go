// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// Scorer computes pairwise title similarity for one call-site variant.
type Scorer struct {
	cfg SimilarityConfig
}

// NewScorer creates a scorer for the given variant.
//
//nolint:gocritic // hugeParam: config copied once at construction
func NewScorer(cfg SimilarityConfig) Scorer {
	return Scorer{cfg: cfg}
}

// Score returns sharedGenres*GenreWeight + sameDirector*DirectorWeight +
// sharedCast*CastWeight. Comparison is case-insensitive; missing directors
// never count as the same director.
//
//nolint:gocritic // hugeParam: titles are read-only inputs
func (s Scorer) Score(a, b catalog.Title) int {
	score := countShared(a.Genres, b.Genres) * s.cfg.GenreWeight
	if sameDirector(a.Director, b.Director) {
		score += s.cfg.DirectorWeight
	}
	score += countShared(a.Cast, b.Cast) * s.cfg.CastWeight
	return score
}

// Adjust folds a score into a base value: min(Cap, base + score*Multiplier).
func (s Scorer) Adjust(base, score int) int {
	adjusted := base + score*s.cfg.Multiplier
	if adjusted > s.cfg.Cap {
		return s.cfg.Cap
	}
	return adjusted
}

// apply scores candidate against reference and returns an adjusted copy.
// ok is false when the titles share nothing.
//
//nolint:gocritic // hugeParam: titles are read-only inputs
func (s Scorer) apply(reference, candidate catalog.Title) (catalog.Title, int, bool) {
	score := s.Score(reference, candidate)
	if score <= 0 {
		return catalog.Title{}, 0, false
	}
	out := candidate.Clone()
	out.MatchPercentage = s.Adjust(out.MatchPercentage, score)
	out.CommonInterest = s.Adjust(out.CommonInterest, score)
	return out, score, true
}

func sameDirector(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// countShared returns the size of the case-insensitive set intersection.
func countShared(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	shared := 0
	for _, v := range b {
		key := strings.ToLower(strings.TrimSpace(v))
		if _, ok := set[key]; ok {
			shared++
			delete(set, key)
		}
	}
	return shared
}
