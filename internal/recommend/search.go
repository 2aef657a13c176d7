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

// search ranks the candidate pool for a query. The platform filter is a plain
// exact or substring match with no aliases and no backfill. The first title whose name
// matches the query in either direction anchors a similarity ranking; with no
// such title the query falls back to an unscored keyword OR match.
//
//nolint:gocritic // hugeParam: request is read-only
func (e *Engine) search(merged []catalog.Title, req SearchRequest) *SearchResult {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		return &SearchResult{Mode: SearchModeNone, Titles: []catalog.Title{}}
	}

	pool := filterLanguages(merged, req.Languages, e.classifier)
	if !req.CrossPlatform {
		m := newPlatformMatcher(req.Platform)
		pool = filterTitles(pool, func(t *catalog.Title) bool { return m.substring(t.AvailableOn) })
	}

	limit := e.config.Limits.SearchResults
	for i := range pool {
		if nameMatches(pool[i].Title, query) {
			return &SearchResult{
				Mode:         SearchModeSimilar,
				MatchedID:    pool[i].ID,
				MatchedTitle: pool[i].Title,
				Titles:       rankSimilar(e.rankScorer, pool[i], pool, limit),
			}
		}
	}

	return &SearchResult{Mode: SearchModeKeyword, Titles: keywordMatch(pool, query, limit)}
}

// rankSimilar scores every other candidate against reference, keeps positive
// scores, sorts by adjusted match percentage and truncates to limit.
//
//nolint:gocritic // hugeParam: reference is read-only
func rankSimilar(scorer Scorer, reference catalog.Title, candidates []catalog.Title, limit int) []catalog.Title {
	out := make([]catalog.Title, 0)
	for i := range candidates {
		if candidates[i].ID == reference.ID {
			continue
		}
		if adjusted, _, ok := scorer.apply(reference, candidates[i]); ok {
			out = append(out, adjusted)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// keywordMatch returns titles whose name, description or a genre contains any
// whitespace-separated keyword of query, in catalog order.
func keywordMatch(pool []catalog.Title, query string, limit int) []catalog.Title {
	keywords := strings.Fields(query)
	out := make([]catalog.Title, 0)
	for i := range pool {
		if len(out) >= limit {
			break
		}
		if containsAny(keywordFields(&pool[i]), keywords) {
			out = append(out, pool[i].Clone())
		}
	}
	return out
}

func keywordFields(t *catalog.Title) []string {
	fields := make([]string, 0, 2+len(t.Genres))
	fields = append(fields, t.Title, t.Description)
	return append(fields, t.Genres...)
}

// suggest returns up to limit titles with a case-insensitive substring match in
// title, description, genres, director or cast, in catalog order.
func suggest(merged []catalog.Title, query string, limit int) []catalog.Title {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]catalog.Title, 0)
	if query == "" {
		return out
	}

	needle := []string{query}
	for i := range merged {
		if len(out) >= limit {
			break
		}
		t := &merged[i]
		fields := keywordFields(t)
		fields = append(fields, t.Director)
		fields = append(fields, t.Cast...)
		if containsAny(fields, needle) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// containsAny reports whether any field contains any lower-cased needle.
func containsAny(fields, needles []string) bool {
	for _, f := range fields {
		if f == "" {
			continue
		}
		lower := strings.ToLower(f)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}
