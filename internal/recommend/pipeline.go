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

// filterTitles returns the titles for which keep returns true, in order.
// The result never aliases the input slice.
func filterTitles(titles []catalog.Title, keep func(*catalog.Title) bool) []catalog.Title {
	out := make([]catalog.Title, 0, len(titles))
	for i := range titles {
		if keep(&titles[i]) {
			out = append(out, titles[i])
		}
	}
	return out
}

// filterLanguages keeps titles whose inferred language is selected.
// An empty selection keeps everything.
func filterLanguages(titles []catalog.Title, languages []string, classifier *Classifier) []catalog.Title {
	if len(languages) == 0 {
		return titles
	}
	selected := lowerSet(languages)
	return filterTitles(titles, func(t *catalog.Title) bool {
		_, ok := selected[classifier.Classify(t.Title, t.Genres)]
		return ok
	})
}

// inferGenres unions the genres of catalog titles whose name matches an
// entered title in either direction, plus explicit history genres.
// The result is sorted for stable output.
func inferGenres(merged []catalog.Title, entered, history []string) []string {
	genres := make(map[string]string)
	add := func(g string) {
		g = strings.TrimSpace(g)
		if g == "" {
			return
		}
		key := strings.ToLower(g)
		if _, ok := genres[key]; !ok {
			genres[key] = g
		}
	}

	for _, raw := range entered {
		query := strings.ToLower(strings.TrimSpace(raw))
		if query == "" {
			continue
		}
		for i := range merged {
			if nameMatches(merged[i].Title, query) {
				for _, g := range merged[i].Genres {
					add(g)
				}
			}
		}
	}
	for _, g := range history {
		add(g)
	}

	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// nameMatches reports a case-insensitive substring match in either direction.
// query must already be lower-cased and non-empty.
func nameMatches(name, query string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	return strings.Contains(name, query) || strings.Contains(query, name)
}

// applyManualBoost boosts both scores of titles sharing a genre with inferred.
func applyManualBoost(titles []catalog.Title, inferred []string, amount, ceiling int) {
	if len(inferred) == 0 || amount == 0 {
		return
	}
	set := lowerSet(inferred)
	for i := range titles {
		if sharesGenre(titles[i].Genres, set) {
			titles[i].MatchPercentage = minInt(ceiling, titles[i].MatchPercentage+amount)
			titles[i].CommonInterest = minInt(ceiling, titles[i].CommonInterest+amount)
		}
	}
}

// filterThreshold keeps titles with a match percentage of at least threshold.
func filterThreshold(titles []catalog.Title, threshold int) []catalog.Title {
	return filterTitles(titles, func(t *catalog.Title) bool {
		return t.MatchPercentage >= threshold
	})
}

// filterGenres keeps titles with at least one selected genre.
// An empty selection keeps everything.
func filterGenres(titles []catalog.Title, genres []string) []catalog.Title {
	if len(genres) == 0 {
		return titles
	}
	set := lowerSet(genres)
	return filterTitles(titles, func(t *catalog.Title) bool {
		return sharesGenre(t.Genres, set)
	})
}

// excludeIDs drops titles whose id is in ids.
func excludeIDs(titles []catalog.Title, ids []int) []catalog.Title {
	if len(ids) == 0 {
		return titles
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return filterTitles(titles, func(t *catalog.Title) bool {
		_, excluded := set[t.ID]
		return !excluded
	})
}

// boostAll adds flat amounts to both scores, capped at ceiling.
func boostAll(titles []catalog.Title, match, interest, ceiling int) {
	for i := range titles {
		titles[i].MatchPercentage = minInt(ceiling, titles[i].MatchPercentage+match)
		titles[i].CommonInterest = minInt(ceiling, titles[i].CommonInterest+interest)
	}
}

// jitter perturbs both scores of a title and clamps them.
//
//nolint:gocritic // hugeParam: small value type
func jitter(t *catalog.Title, r RandomSource, cfg JitterConfig) {
	t.MatchPercentage = clamp(t.MatchPercentage+randomOffset(r, cfg.Min, cfg.Max), cfg.Floor, cfg.Ceil)
	t.CommonInterest = clamp(t.CommonInterest+randomOffset(r, cfg.Min, cfg.Max), cfg.Floor, cfg.Ceil)
}

func sharesGenre(genres []string, set map[string]struct{}) bool {
	for _, g := range genres {
		if _, ok := set[strings.ToLower(strings.TrimSpace(g))]; ok {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// requestSignals collects manual titles and history genres from a request
// and all of its participants.
func requestSignals(req *Request) (entered, history []string) {
	entered = append(entered, req.ManualTitles...)
	for i := range req.Participants {
		entered = append(entered, req.Participants[i].ManualTitles...)
		history = append(history, req.Participants[i].HistoryGenres...)
	}
	return entered, history
}

// rank runs the flat pipeline over a merged working sequence.
// merged must be owned by the caller; it is filtered and adjusted in place.
func (e *Engine) rank(merged []catalog.Title, req *Request) *Result {
	path := e.config.Ranked
	boosts := e.config.Boosts
	result := &Result{Mode: ModeRanked, Groups: map[string][]catalog.Title{}}

	// 2. language
	working := filterLanguages(merged, req.Languages, e.classifier)

	// 3. manual titles and history genres
	entered, history := requestSignals(req)
	result.InferredGenres = inferGenres(merged, entered, history)
	applyManualBoost(working, result.InferredGenres, boosts.Manual, boosts.ManualCap)

	// 4. platform
	if req.CrossPlatform {
		result.Tier = TierCrossPlatform
		result.PoolBeforeBackfill = len(working)
	} else {
		outcome := filterPlatform(working, req.Platform, path)
		working = outcome.pool
		result.Tier = outcome.tier
		result.PoolBeforeBackfill = outcome.before
		result.Backfilled = outcome.backfilled
		if len(working) == 0 {
			result.SuggestCrossPlatform = true
			result.Titles = []catalog.Title{}
			return result
		}
	}

	// 5-8. threshold, genres, watched, currently shown
	working = filterThreshold(working, path.MatchThreshold)
	working = filterGenres(working, req.Genres)
	working = excludeIDs(working, req.Watched)
	working = excludeIDs(working, req.Shown)

	// 9-10. mode boosts
	if req.CrossPlatform {
		boostAll(working, boosts.CrossPlatformMatch, boosts.CrossPlatformInterest, boosts.CrossPlatformCap)
	} else if len(working) > 0 {
		boostAll(working, boosts.Platform, boosts.Platform, boosts.PlatformCap)
	}

	// 11. dedup
	working = catalog.DedupByID(working)
	result.Available = len(working)

	// 12. shuffle and truncate
	shuffle(e.rng, working)
	if n := e.config.normalizeCount(req.Count); len(working) > n {
		working = working[:n]
	}

	// 13. jitter
	for i := range working {
		jitter(&working[i], e.rng, e.config.FlatJitter)
	}

	result.Titles = working
	return result
}
