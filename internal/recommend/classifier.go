// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"github.com/tomtom215/cinematch/internal/cache"
)

// DefaultLanguage is returned when no pattern group matches.
const DefaultLanguage = "en"

// LanguageGroup is an ordered pattern list associated with a language code.
type LanguageGroup struct {
	Code string `json:"code"`
	Name string `json:"name"`

	// Titles are case-insensitive substrings of known titles in the language.
	Titles []string `json:"titles"`

	// GenreHints are substrings that identify the language from a genre label
	// when no title pattern matches. The default groups carry none, so a title
	// outside every title list classifies as DefaultLanguage.
	GenreHints []string `json:"genre_hints,omitempty"`
}

// DefaultLanguageGroups returns the built-in groups in priority order. They
// match on title substrings only.
func DefaultLanguageGroups() []LanguageGroup {
	return []LanguageGroup{
		{
			Code: "te",
			Name: "Telugu",
			Titles: []string{
				"rrr", "baahubali", "bahubali", "pushpa", "hit-", "hit:", "salaar",
				"eega", "magadheera", "arjun reddy", "jersey", "ala vaikunthapurramuloo",
				"sita ramam", "kalki", "devara", "hi nanna",
			},
		},
		{
			Code: "ta",
			Name: "Tamil",
			Titles: []string{
				"vikram", "jailer", "kaithi", "ponniyin selvan", "jai bhim", "asuran",
				"soorarai pottru", "vada chennai", "super deluxe", "maharaja",
				"ratsasan",
			},
		},
		{
			Code: "hi",
			Name: "Hindi",
			Titles: []string{
				"dangal", "3 idiots", "jawan", "lagaan", "andhadhun", "tumbbad",
				"the lunchbox", "pathaan", "gully boy", "zindagi na milegi dobara",
				"sholay", "kahaani", "drishyam",
			},
		},
	}
}

// Classifier maps a title and its genres to a language code.
//
// Title patterns are checked across all groups first. Genre hints are only
// consulted for custom groups that define them. Within a kind, the group
// listed first wins, so titles matching several groups resolve
// to the earliest one. Classification is a heuristic: titles outside the
// pattern lists fall back to DefaultLanguage.
type Classifier struct {
	groups   []LanguageGroup
	titles   *cache.Matcher[int]
	hints    *cache.Matcher[int]
	fallback string
}

// NewClassifier builds a classifier from groups in priority order.
// A nil or empty slice uses DefaultLanguageGroups.
func NewClassifier(groups []LanguageGroup) *Classifier {
	if len(groups) == 0 {
		groups = DefaultLanguageGroups()
	}

	c := &Classifier{
		groups:   groups,
		titles:   cache.NewMatcher[int](),
		hints:    cache.NewMatcher[int](),
		fallback: DefaultLanguage,
	}
	for priority, g := range groups {
		c.titles.AddAll(g.Titles, priority)
		c.hints.AddAll(g.GenreHints, priority)
	}
	c.titles.Build()
	c.hints.Build()
	return c
}

// Classify returns the inferred language code. It is pure: the same input
// always yields the same code.
func (c *Classifier) Classify(title string, genres []string) string {
	if priority, ok := bestPriority(c.titles.FindAll(title)); ok {
		return c.groups[priority].Code
	}

	best := -1
	for _, g := range genres {
		if priority, ok := bestPriority(c.hints.FindAll(g)); ok && (best < 0 || priority < best) {
			best = priority
		}
	}
	if best >= 0 {
		return c.groups[best].Code
	}

	return c.fallback
}

// Languages returns every code the classifier can produce, default last.
func (c *Classifier) Languages() []string {
	codes := make([]string, 0, len(c.groups)+1)
	seen := make(map[string]struct{}, len(c.groups)+1)
	for _, g := range c.groups {
		if _, ok := seen[g.Code]; ok {
			continue
		}
		seen[g.Code] = struct{}{}
		codes = append(codes, g.Code)
	}
	if _, ok := seen[c.fallback]; !ok {
		codes = append(codes, c.fallback)
	}
	return codes
}

func bestPriority(matches []cache.Match[int]) (int, bool) {
	if len(matches) == 0 {
		return 0, false
	}
	best := matches[0].Value
	for _, m := range matches[1:] {
		if m.Value < best {
			best = m.Value
		}
	}
	return best, true
}
