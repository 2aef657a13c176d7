// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"testing"

	"github.com/tomtom215/cinematch/internal/catalog"
)

func TestInferGenres(t *testing.T) {
	t.Parallel()

	merged := []catalog.Title{
		title(1, "RRR", 80, []string{"Action", "Drama"}),
		title(2, "The Office", 80, []string{"Comedy"}),
		title(3, "Office Space", 80, []string{"Comedy", "Satire"}),
	}

	tests := []struct {
		name    string
		entered []string
		history []string
		want    []string
	}{
		{"none", nil, nil, []string{}},
		{"blank entries ignored", []string{"", "   "}, nil, []string{}},
		{"entered contains catalog name", []string{"watched rrr twice"}, nil, []string{"Action", "Drama"}},
		{"catalog name contains entered", []string{"office"}, nil, []string{"Comedy", "Satire"}},
		{"history merged case-insensitively", []string{"rrr"}, []string{"drama", "Horror"}, []string{"Action", "Drama", "Horror"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := inferGenres(merged, tt.entered, tt.history)
			if len(got) != len(tt.want) {
				t.Fatalf("inferGenres() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("inferGenres()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEngine_Rank_ManualBoost(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, fixedSource(0.5),
		title(1, "Kaithi", 50, []string{"Action", "Thriller"}, "Netflix"),
		title(2, "Romcom", 50, []string{"Romance"}, "Netflix"),
		title(3, "High", 90, []string{"Thriller"}, "Netflix"),
	)

	result, err := engine.Rank(context.Background(), Request{
		CrossPlatform: true,
		Genres:        []string{"Action", "Romance", "Thriller"},
		Participants:  []Participant{{Name: "sam", ManualTitles: []string{"kaithi"}}},
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	// Manual +20 (cap 98), then cross-platform +10/+8 (cap 98), zero jitter.
	want := map[int][2]int{
		1: {80, 78},
		2: {60, 58},
		3: {98, 98},
	}
	for _, got := range result.Titles {
		w := want[got.ID]
		if got.MatchPercentage != w[0] || got.CommonInterest != w[1] {
			t.Errorf("title %d = (%d, %d), want (%d, %d)", got.ID,
				got.MatchPercentage, got.CommonInterest, w[0], w[1])
		}
	}
	if len(result.InferredGenres) != 2 {
		t.Errorf("InferredGenres = %v, want [Action Thriller]", result.InferredGenres)
	}
	if result.Tier != TierCrossPlatform {
		t.Errorf("Tier = %q, want cross_platform", result.Tier)
	}
}

func TestEngine_Rank_HistoryGenresBoost(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, fixedSource(0.5),
		title(1, "One", 50, []string{"Horror"}, "Netflix"),
		title(2, "Two", 50, []string{"Drama"}, "Netflix"),
	)

	result, err := engine.Rank(context.Background(), Request{
		Platform:     "netflix",
		Genres:       []string{"Horror", "Drama"},
		Participants: []Participant{{Name: "kim", HistoryGenres: []string{"horror"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range result.Titles {
		// Horror: 50 + 20 manual + 5 platform. Drama: 50 + 5 platform.
		want := 55
		if got.ID == 1 {
			want = 75
		}
		if got.MatchPercentage != want {
			t.Errorf("title %d match = %d, want %d", got.ID, got.MatchPercentage, want)
		}
	}
}

func TestEngine_Rank_ThresholdAndExclusions(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, fixedSource(0.5),
		title(1, "Below", 34, []string{"Drama"}, "Netflix"),
		title(2, "At", 35, []string{"Drama"}, "Netflix"),
		title(3, "Watched", 80, []string{"Drama"}, "Netflix"),
		title(4, "Shown", 80, []string{"Drama"}, "Netflix"),
		title(5, "Other Genre", 80, []string{"Comedy"}, "Netflix"),
	)

	result, err := engine.Rank(context.Background(), Request{
		CrossPlatform: true,
		Genres:        []string{"drama"},
		Watched:       []int{3},
		Shown:         []int{4},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(result.Titles); !equalInts(got, []int{2}) {
		t.Errorf("ids = %v, want [2]", got)
	}
	if result.Available != 1 {
		t.Errorf("Available = %d, want 1", result.Available)
	}
}

func TestEngine_Rank_CountTruncation(t *testing.T) {
	t.Parallel()

	engine, _ := newSeedEngine(t, NewSeededSource(5))

	tests := []struct {
		count int
		want  int
	}{
		{3, 3},
		{0, 20},
		{1000, 35},
	}
	for _, tt := range tests {
		result, err := engine.Rank(context.Background(), Request{
			CrossPlatform: true,
			Genres: []string{"Action", "Drama", "Comedy", "Thriller", "Sci-Fi", "Horror",
				"Romance", "Animation", "Adventure", "Crime", "Fantasy", "History", "Sport"},
			Count: tt.count,
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Titles) != tt.want {
			t.Errorf("Count %d: got %d titles, want %d (available %d)", tt.count, len(result.Titles), tt.want, result.Available)
		}
	}
}

func TestRequestSignals(t *testing.T) {
	t.Parallel()

	req := &Request{
		ManualTitles: []string{"a"},
		Participants: []Participant{
			{ManualTitles: []string{"b"}, HistoryGenres: []string{"Drama"}},
			{ManualTitles: []string{"c"}, HistoryGenres: []string{"Comedy"}},
		},
	}
	entered, history := requestSignals(req)
	if len(entered) != 3 || len(history) != 2 {
		t.Errorf("requestSignals() = %v, %v", entered, history)
	}
}
