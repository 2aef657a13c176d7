// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/tomtom215/cinematch/internal/catalog"
)

func TestEngine_Group_KeysArePrimaryGenres(t *testing.T) {
	t.Parallel()

	engine, store := newSeedEngine(t, NewSeededSource(9))

	result, err := engine.Group(context.Background(), Request{CrossPlatform: true, Watched: []int{26}})
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}

	merged, err := store.Merge()
	if err != nil {
		t.Fatal(err)
	}
	want := make(map[string]struct{})
	for i := range merged {
		if merged[i].MatchPercentage >= DefaultConfig().Grouped.MatchThreshold && merged[i].ID != 26 {
			want[merged[i].PrimaryGenre()] = struct{}{}
		}
	}

	if len(result.Groups) != len(want) {
		t.Fatalf("GroupKeys = %v, want %d keys", GroupKeys(result.Groups), len(want))
	}
	for genre, bucket := range result.Groups {
		if _, ok := want[genre]; !ok {
			t.Errorf("unexpected group %q", genre)
		}
		if len(bucket) == 0 || len(bucket) > DefaultConfig().Grouped.BucketCap {
			t.Errorf("group %q has %d entries", genre, len(bucket))
		}
		for i, got := range bucket {
			if got.PrimaryGenre() != genre {
				t.Errorf("title %d in %q has primary genre %q", got.ID, genre, got.PrimaryGenre())
			}
			if got.ID == 26 {
				t.Error("watched title returned")
			}
			if got.MatchPercentage < 35 || got.MatchPercentage > 98 {
				t.Errorf("title %d match %d out of range", got.ID, got.MatchPercentage)
			}
			if i > 0 && got.MatchPercentage > bucket[i-1].MatchPercentage {
				t.Errorf("group %q not sorted descending", genre)
			}
		}
	}
}

func TestEngine_GroupCompact(t *testing.T) {
	t.Parallel()

	titles := make([]catalog.Title, 0, 12)
	for i := 1; i <= 10; i++ {
		titles = append(titles, title(i, fmt.Sprintf("Drama %d", i), 40+i*5, []string{"Drama", "Comedy"}, "Netflix"))
	}
	titles = append(titles, title(11, "Loner", 49, []string{"Horror"}, "Netflix"))
	titles = append(titles, title(12, "Untagged", 90, nil, "Netflix"))

	engine := newTestEngine(t, fixedSource(0.5), titles...)

	compact, err := engine.GroupCompact(context.Background(), Request{CrossPlatform: true})
	if err != nil {
		t.Fatal(err)
	}
	if compact.Mode != ModeCompact {
		t.Errorf("Mode = %q, want compact", compact.Mode)
	}
	// Threshold 49 keeps Drama 2..10 and Loner; buckets fill in catalog order up to 5.
	if got := ids(compact.Groups["Drama"]); !equalInts(got, []int{6, 5, 4, 3, 2}) {
		t.Errorf("Drama bucket = %v, want [6 5 4 3 2]", got)
	}
	if got := ids(compact.Groups["Horror"]); !equalInts(got, []int{11}) {
		t.Errorf("Horror bucket = %v", got)
	}
	if _, ok := compact.Groups[""]; ok {
		t.Error("titles without genres must not be grouped")
	}

	grouped, err := engine.Group(context.Background(), Request{CrossPlatform: true})
	if err != nil {
		t.Fatal(err)
	}
	// Threshold 45 keeps all ten Drama titles, well under the bucket cap of 40.
	if got := len(grouped.Groups["Drama"]); got != 10 {
		t.Errorf("grouped Drama bucket size = %d, want 10", got)
	}
	if got := len(grouped.Groups["Horror"]); got != 1 {
		t.Errorf("grouped Horror bucket size = %d, want 1", got)
	}
}

func TestBucketByPrimaryGenre_Jitter(t *testing.T) {
	t.Parallel()

	titles := []catalog.Title{
		title(1, "a", 36, []string{"Drama"}),
		title(2, "b", 97, []string{"Drama"}),
	}

	low := bucketByPrimaryGenre(titles, 40, fixedSource(0.0), DefaultConfig().BucketJitter)
	if got := low["Drama"]; got[0].MatchPercentage != 93 || got[1].MatchPercentage != 35 {
		t.Errorf("low jitter = %v, %v", got[0].MatchPercentage, got[1].MatchPercentage)
	}

	high := bucketByPrimaryGenre(titles, 40, fixedSource(0.999), DefaultConfig().BucketJitter)
	if got := high["Drama"]; got[0].MatchPercentage != 98 || got[1].MatchPercentage != 40 {
		t.Errorf("high jitter = %v, %v", got[0].MatchPercentage, got[1].MatchPercentage)
	}

	if titles[0].MatchPercentage != 36 {
		t.Error("bucketing mutated its input")
	}
}
