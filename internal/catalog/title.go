// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import "strings"

// Title is a single catalog entry.
//
// MatchPercentage and CommonInterest hold the seed scores from the catalog.
// Recommendation runs derive new values on copies; the stored values are never changed.
type Title struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Genres          []string `json:"genres"`
	Year            int      `json:"year"`
	Rating          float64  `json:"rating"`
	MatchPercentage int      `json:"match_percentage"`
	CommonInterest  int      `json:"common_interest"`
	AvailableOn     []string `json:"available_on"`
	Director        string   `json:"director,omitempty"`
	Cast            []string `json:"cast,omitempty"`

	// Watched is informational only. Watched state is owned by the caller's session.
	Watched bool `json:"watched,omitempty"`
}

// PrimaryGenre returns the first genre, or "" when the title has none.
func (t *Title) PrimaryGenre() string {
	if len(t.Genres) == 0 {
		return ""
	}
	return t.Genres[0]
}

// HasGenre reports whether the title carries the genre (case-insensitive).
func (t *Title) HasGenre(genre string) bool {
	for _, g := range t.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the title.
//
//nolint:gocritic // value receiver keeps Clone usable on map and slice elements
func (t Title) Clone() Title {
	t.Genres = cloneStrings(t.Genres)
	t.AvailableOn = cloneStrings(t.AvailableOn)
	t.Cast = cloneStrings(t.Cast)
	return t
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
