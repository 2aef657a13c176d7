// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// group runs the grouping path: language, platform, threshold, watched and
// dedup stages, then buckets by primary genre. Boost stages are skipped.
//
//nolint:gocritic // hugeParam: path config is read-only
func (e *Engine) group(merged []catalog.Title, req *Request, mode Mode, path PathConfig) *Result {
	result := &Result{Mode: mode, Titles: []catalog.Title{}, Groups: map[string][]catalog.Title{}}

	working := filterLanguages(merged, req.Languages, e.classifier)

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
			return result
		}
	}

	working = filterThreshold(working, path.MatchThreshold)
	working = excludeIDs(working, req.Watched)
	working = catalog.DedupByID(working)
	result.Available = len(working)

	result.Groups = bucketByPrimaryGenre(working, path.BucketCap, e.rng, e.config.BucketJitter)
	return result
}

// bucketByPrimaryGenre places titles under genres[0] in input order, skipping
// titles once their bucket is full. Each inserted title is jittered, and every
// bucket is sorted by match percentage descending. Titles without genres are
// not grouped.
//
//nolint:gocritic // hugeParam: small value type
func bucketByPrimaryGenre(titles []catalog.Title, limit int, r RandomSource, cfg JitterConfig) map[string][]catalog.Title {
	groups := make(map[string][]catalog.Title)
	for i := range titles {
		genre := titles[i].PrimaryGenre()
		if genre == "" {
			continue
		}
		if len(groups[genre]) >= limit {
			continue
		}
		t := titles[i]
		jitter(&t, r, cfg)
		groups[genre] = append(groups[genre], t)
	}

	for genre := range groups {
		bucket := groups[genre]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].MatchPercentage > bucket[j].MatchPercentage
		})
	}
	return groups
}
