// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// Platform is a streaming service the engine knows how to match.
type Platform struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
}

// platforms maps ids to their canonical display names and aliases.
var platforms = map[string]Platform{
	"netflix":   {ID: "netflix", DisplayName: "Netflix"},
	"prime":     {ID: "prime", DisplayName: "Amazon Prime Video", Aliases: []string{"amazon"}},
	"amazon":    {ID: "amazon", DisplayName: "Amazon Prime Video", Aliases: []string{"prime"}},
	"disney":    {ID: "disney", DisplayName: "Disney+ Hotstar", Aliases: []string{"hotstar"}},
	"hotstar":   {ID: "hotstar", DisplayName: "Disney+ Hotstar", Aliases: []string{"disney"}},
	"hbo":       {ID: "hbo", DisplayName: "HBO Max", Aliases: []string{"hbo", "max"}},
	"hulu":      {ID: "hulu", DisplayName: "Hulu"},
	"apple":     {ID: "apple", DisplayName: "Apple TV+", Aliases: []string{"apple tv"}},
	"jiocinema": {ID: "jiocinema", DisplayName: "JioCinema", Aliases: []string{"jio"}},
	"aha":       {ID: "aha", DisplayName: "Aha"},
	"sunnxt":    {ID: "sunnxt", DisplayName: "Sun NXT", Aliases: []string{"sun nxt"}},
	"zee5":      {ID: "zee5", DisplayName: "Zee5"},
}

// Platforms returns the known platforms sorted by id.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupPlatform returns the platform for an id (case-insensitive).
func LookupPlatform(id string) (Platform, bool) {
	p, ok := platforms[normalizePlatform(id)]
	return p, ok
}

func normalizePlatform(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// platformMatcher decides whether availability entries relate to a platform.
type platformMatcher struct {
	id          string
	displayName string
	aliases     []string
}

func newPlatformMatcher(platform string) platformMatcher {
	id := normalizePlatform(platform)
	m := platformMatcher{id: id}
	if p, ok := platforms[id]; ok {
		m.displayName = p.DisplayName
		m.aliases = p.Aliases
	}
	return m
}

// exact reports whether any entry equals the platform id or display name.
func (m platformMatcher) exact(availableOn []string) bool {
	if m.id == "" {
		return false
	}
	for _, entry := range availableOn {
		if strings.EqualFold(entry, m.id) || (m.displayName != "" && strings.EqualFold(entry, m.displayName)) {
			return true
		}
	}
	return false
}

// substring reports an exact match or an entry containing the id. Aliases
// are not consulted.
func (m platformMatcher) substring(availableOn []string) bool {
	if m.id == "" {
		return false
	}
	if m.exact(availableOn) {
		return true
	}
	for _, entry := range availableOn {
		if strings.Contains(strings.ToLower(entry), m.id) {
			return true
		}
	}
	return false
}

// loose reports a substring match, or an entry containing an alias.
func (m platformMatcher) loose(availableOn []string) bool {
	if m.substring(availableOn) {
		return true
	}
	for _, entry := range availableOn {
		lower := strings.ToLower(entry)
		for _, alias := range m.aliases {
			if strings.Contains(lower, alias) {
				return true
			}
		}
	}
	return false
}

// platformOutcome describes the platform filter result.
type platformOutcome struct {
	pool       []catalog.Title
	tier       PlatformTier
	before     int
	backfilled int
}

// filterPlatform runs the three-tier degrade: exact matches, then substring and
// alias matches, then backfill from the highest-scoring titles of working.
//
//nolint:gocritic // hugeParam: path config is read-only
func filterPlatform(working []catalog.Title, platform string, path PathConfig) platformOutcome {
	m := newPlatformMatcher(platform)

	pool := filterTitles(working, func(t *catalog.Title) bool { return m.exact(t.AvailableOn) })
	if len(pool) >= path.MinExact {
		return platformOutcome{pool: pool, tier: TierExact, before: len(pool)}
	}

	pool = filterTitles(working, func(t *catalog.Title) bool { return m.loose(t.AvailableOn) })
	if len(pool) >= path.MinSubstring {
		return platformOutcome{pool: pool, tier: TierSubstring, before: len(pool)}
	}

	before := len(pool)
	pool, added := backfill(pool, working, path.BackfillMinMatch, path.BackfillCap)
	return platformOutcome{pool: pool, tier: TierBackfill, before: before, backfilled: added}
}

// backfill appends titles from working that are not in pool and have a match
// percentage of at least minMatch, highest first, at most limit of them.
func backfill(pool, working []catalog.Title, minMatch, limit int) ([]catalog.Title, int) {
	inPool := make(map[int]struct{}, len(pool))
	for i := range pool {
		inPool[pool[i].ID] = struct{}{}
	}

	candidates := filterTitles(working, func(t *catalog.Title) bool {
		_, dup := inPool[t.ID]
		return !dup && t.MatchPercentage >= minMatch
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchPercentage > candidates[j].MatchPercentage
	})

	added := 0
	for i := range candidates {
		if added >= limit {
			break
		}
		if _, dup := inPool[candidates[i].ID]; dup {
			continue
		}
		inPool[candidates[i].ID] = struct{}{}
		pool = append(pool, candidates[i])
		added++
	}
	return pool, added
}
