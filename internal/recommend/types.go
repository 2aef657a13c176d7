// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"sort"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// ErrTitleNotFound is returned when a title id is not in the catalog.
var ErrTitleNotFound = errors.New("title not found")

// Mode identifies which presentation path produced a result.
type Mode string

const (
	// ModeRanked is the flat, shuffled and truncated list.
	ModeRanked Mode = "ranked"

	// ModeGrouped buckets titles by primary genre.
	ModeGrouped Mode = "grouped"

	// ModeCompact is the grouped path with the compact constants.
	ModeCompact Mode = "compact"
)

// PlatformTier records how far the platform filter had to degrade.
type PlatformTier string

const (
	// TierCrossPlatform means the platform filter was skipped.
	TierCrossPlatform PlatformTier = "cross_platform"

	// TierExact means exact availability matches were enough.
	TierExact PlatformTier = "exact"

	// TierSubstring means substring and alias matching were used.
	TierSubstring PlatformTier = "substring"

	// TierBackfill means top-match titles were added regardless of platform.
	TierBackfill PlatformTier = "backfill"
)

// Participant is one person in a group request.
type Participant struct {
	Name string `json:"name" validate:"omitempty,max=100"`

	// Platforms the participant subscribes to. Informational; the request
	// platform drives filtering.
	Platforms []string `json:"platforms,omitempty" validate:"omitempty,max=20,dive,platform"`

	// ManualTitles are free-text titles the participant entered.
	ManualTitles []string `json:"manual_titles,omitempty" validate:"omitempty,max=50,dive,max=200"`

	// HistoryGenres is the analyzer output for the participant's uploaded history.
	HistoryGenres []string `json:"history_genres,omitempty" validate:"omitempty,max=50,dive,max=100"`
}

// Request holds the parameters of a recommendation run.
//
// Malformed platform input is not rejected: an empty or unknown platform with
// CrossPlatform off matches nothing and falls through to backfill.
type Request struct {
	Platform      string   `json:"platform" validate:"platform"`
	CrossPlatform bool     `json:"cross_platform"`
	Genres        []string `json:"genres,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Languages     []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,langcode"`

	// Watched ids are excluded from every run.
	Watched []int `json:"watched,omitempty" validate:"omitempty,max=10000"`

	// Shown ids are the titles already displayed. Non-empty means "load more".
	Shown []int `json:"shown,omitempty" validate:"omitempty,max=10000"`

	// Count is the number of titles wanted. Zero means the configured default.
	Count int `json:"count,omitempty" validate:"gte=0,lte=1000"`

	ManualTitles []string      `json:"manual_titles,omitempty" validate:"omitempty,max=50,dive,max=200"`
	Participants []Participant `json:"participants,omitempty" validate:"omitempty,max=20,dive"`
}

// Result is the outcome of a recommendation run.
type Result struct {
	Mode Mode `json:"mode"`

	// Titles holds the flat list (ranked mode). Always non-nil.
	Titles []catalog.Title `json:"titles"`

	// Groups holds genre buckets (grouped modes). Always non-nil.
	Groups map[string][]catalog.Title `json:"groups"`

	// Tier is the platform filter tier that produced the pool.
	Tier PlatformTier `json:"platform_tier"`

	// PoolBeforeBackfill is the platform pool size before backfill ran.
	PoolBeforeBackfill int `json:"pool_before_backfill"`

	// Backfilled counts titles added by backfill.
	Backfilled int `json:"backfilled"`

	// Available is the number of titles that survived filtering, before truncation.
	Available int `json:"available"`

	// SuggestCrossPlatform is set when the platform filter left nothing and
	// cross-platform mode was off. It is a hint for the caller, not an error.
	SuggestCrossPlatform bool `json:"suggest_cross_platform"`

	// InferredGenres are the genres boosted by manual titles and history.
	InferredGenres []string `json:"inferred_genres,omitempty"`
}

// Size returns the number of titles in the result across all groups.
func (r *Result) Size() int {
	n := len(r.Titles)
	for _, titles := range r.Groups {
		n += len(titles)
	}
	return n
}

// IDs returns the ids of every returned title, in presentation order.
func (r *Result) IDs() []int {
	ids := make([]int, 0, r.Size())
	for _, t := range r.Titles {
		ids = append(ids, t.ID)
	}
	for _, key := range GroupKeys(r.Groups) {
		for _, t := range r.Groups[key] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// GroupKeys returns the keys of a grouping sorted by name.
func GroupKeys(groups map[string][]catalog.Title) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SearchMode identifies which search strategy produced a result.
type SearchMode string

const (
	// SearchModeSimilar ranks titles similar to a matched title.
	SearchModeSimilar SearchMode = "similar"

	// SearchModeKeyword is the unscored keyword OR fallback.
	SearchModeKeyword SearchMode = "keyword"

	// SearchModeNone is reported for blank queries.
	SearchModeNone SearchMode = "none"
)

// SearchRequest holds the parameters of a search.
type SearchRequest struct {
	Query         string   `json:"query" validate:"max=200"`
	Platform      string   `json:"platform" validate:"platform"`
	CrossPlatform bool     `json:"cross_platform"`
	Languages     []string `json:"languages,omitempty" validate:"omitempty,max=20,dive,langcode"`
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Mode SearchMode `json:"mode"`

	// MatchedID is the id of the title the query matched in similar mode.
	MatchedID int `json:"matched_id,omitempty"`

	// MatchedTitle is the name of the matched title in similar mode.
	MatchedTitle string `json:"matched_title,omitempty"`

	Titles []catalog.Title `json:"titles"`
}

func (r *SearchResult) clone() *SearchResult {
	out := *r
	out.Titles = cloneTitles(r.Titles)
	return &out
}

func cloneTitles(titles []catalog.Title) []catalog.Title {
	out := make([]catalog.Title, len(titles))
	for i := range titles {
		out[i] = titles[i].Clone()
	}
	return out
}
