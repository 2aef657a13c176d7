// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Partitions are the catalog partitions merged for every run, in order.
	// Empty means all partitions in load order.
	Partitions []string `json:"partitions"`

	// Ranked holds the constants of the flat recommendation path.
	Ranked PathConfig `json:"ranked"`

	// Grouped holds the constants of the genre grouping path.
	Grouped PathConfig `json:"grouped"`

	// Compact holds the constants of the compact grouping variant
	// (higher threshold, small buckets).
	Compact PathConfig `json:"compact"`

	// Boosts are the flat score boosts applied by the pipeline.
	Boosts BoostConfig `json:"boosts"`

	// FlatJitter is applied to every title of a ranked result.
	FlatJitter JitterConfig `json:"flat_jitter"`

	// BucketJitter is applied to titles as they enter a genre bucket.
	BucketJitter JitterConfig `json:"bucket_jitter"`

	// BoostSimilarity is the scorer used for "more like this" nudging.
	BoostSimilarity SimilarityConfig `json:"boost_similarity"`

	// RankSimilarity is the scorer used for search ranking.
	RankSimilarity SimilarityConfig `json:"rank_similarity"`

	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// Seed seeds the default random source. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// PathConfig holds the per-call-site constants of a recommendation path.
type PathConfig struct {
	// MinExact is the pool size below which the platform filter falls back
	// to substring and alias matching.
	MinExact int `json:"min_exact"`

	// MinSubstring is the pool size below which the platform filter backfills.
	MinSubstring int `json:"min_substring"`

	// BackfillMinMatch is the lowest match percentage a backfilled title may have.
	BackfillMinMatch int `json:"backfill_min_match"`

	// BackfillCap is the maximum number of titles added by backfill.
	BackfillCap int `json:"backfill_cap"`

	// MatchThreshold drops titles whose match percentage is below it.
	MatchThreshold int `json:"match_threshold"`

	// BucketCap limits each genre bucket. Unused by the ranked path.
	BucketCap int `json:"bucket_cap"`
}

// BoostConfig contains the flat boosts and their caps.
type BoostConfig struct {
	Manual                int `json:"manual"`
	ManualCap             int `json:"manual_cap"`
	CrossPlatformMatch    int `json:"cross_platform_match"`
	CrossPlatformInterest int `json:"cross_platform_interest"`
	CrossPlatformCap      int `json:"cross_platform_cap"`
	Platform              int `json:"platform"`
	PlatformCap           int `json:"platform_cap"`
}

// JitterConfig describes a uniform integer offset in [Min, Max] followed by a
// clamp to [Floor, Ceil].
type JitterConfig struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Floor int `json:"floor"`
	Ceil  int `json:"ceil"`
}

// SimilarityConfig defines one scorer variant.
//
// score = sharedGenres*GenreWeight + sameDirector*DirectorWeight + sharedCast*CastWeight
// adjusted = min(Cap, base + score*Multiplier)
type SimilarityConfig struct {
	GenreWeight    int `json:"genre_weight"`
	DirectorWeight int `json:"director_weight"`
	CastWeight     int `json:"cast_weight"`
	Multiplier     int `json:"multiplier"`
	Cap            int `json:"cap"`
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	// DefaultCount is used when a request asks for zero titles.
	DefaultCount int `json:"default_count"`

	// MaxCount caps the requested count.
	MaxCount int `json:"max_count"`

	// SearchResults caps both search modes.
	SearchResults int `json:"search_results"`

	// Suggestions caps live suggestions.
	Suggestions int `json:"suggestions"`

	// SimilarDefault is the default "more like this" size.
	SimilarDefault int `json:"similar_default"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() *Config {
	return &Config{
		Ranked: PathConfig{
			MinExact:         20,
			MinSubstring:     15,
			BackfillMinMatch: 85,
			BackfillCap:      30,
			MatchThreshold:   35,
		},
		Grouped: PathConfig{
			MinExact:         30,
			MinSubstring:     25,
			BackfillMinMatch: 80,
			BackfillCap:      40,
			MatchThreshold:   45,
			BucketCap:        40,
		},
		Compact: PathConfig{
			MinExact:         30,
			MinSubstring:     25,
			BackfillMinMatch: 80,
			BackfillCap:      40,
			MatchThreshold:   49,
			BucketCap:        5,
		},
		Boosts: BoostConfig{
			Manual:                20,
			ManualCap:             98,
			CrossPlatformMatch:    10,
			CrossPlatformInterest: 8,
			CrossPlatformCap:      98,
			Platform:              5,
			PlatformCap:           95,
		},
		FlatJitter:   JitterConfig{Min: -5, Max: 4, Floor: 35, Ceil: 98},
		BucketJitter: JitterConfig{Min: -4, Max: 4, Floor: 35, Ceil: 98},
		BoostSimilarity: SimilarityConfig{
			GenreWeight:    4,
			DirectorWeight: 15,
			CastWeight:     2,
			Multiplier:     2,
			Cap:            98,
		},
		RankSimilarity: SimilarityConfig{
			GenreWeight:    4,
			DirectorWeight: 15,
			CastWeight:     1,
			Multiplier:     2,
			Cap:            95,
		},
		Limits: LimitsConfig{
			DefaultCount:   20,
			MaxCount:       100,
			SearchResults:  30,
			Suggestions:    8,
			SimilarDefault: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	paths := []struct {
		name string
		cfg  PathConfig
	}{
		{"ranked", c.Ranked},
		{"grouped", c.Grouped},
		{"compact", c.Compact},
	}
	for _, p := range paths {
		if err := p.cfg.validate(p.name); err != nil {
			return err
		}
	}
	if c.Grouped.BucketCap < 1 {
		return fmt.Errorf("grouped.bucket_cap must be positive, got %d", c.Grouped.BucketCap)
	}
	if c.Compact.BucketCap < 1 {
		return fmt.Errorf("compact.bucket_cap must be positive, got %d", c.Compact.BucketCap)
	}

	if err := c.Boosts.validate(); err != nil {
		return err
	}
	if err := c.FlatJitter.validate("flat_jitter"); err != nil {
		return err
	}
	if err := c.BucketJitter.validate("bucket_jitter"); err != nil {
		return err
	}
	if err := c.BoostSimilarity.validate("boost_similarity"); err != nil {
		return err
	}
	if err := c.RankSimilarity.validate("rank_similarity"); err != nil {
		return err
	}

	if c.Limits.DefaultCount < 1 {
		return fmt.Errorf("limits.default_count must be positive, got %d", c.Limits.DefaultCount)
	}
	if c.Limits.MaxCount < c.Limits.DefaultCount {
		return fmt.Errorf("limits.max_count (%d) must be >= default_count (%d)", c.Limits.MaxCount, c.Limits.DefaultCount)
	}
	if c.Limits.SearchResults < 1 {
		return fmt.Errorf("limits.search_results must be positive, got %d", c.Limits.SearchResults)
	}
	if c.Limits.Suggestions < 1 {
		return fmt.Errorf("limits.suggestions must be positive, got %d", c.Limits.Suggestions)
	}
	if c.Limits.SimilarDefault < 1 {
		return fmt.Errorf("limits.similar_default must be positive, got %d", c.Limits.SimilarDefault)
	}

	return nil
}

func (p PathConfig) validate(name string) error {
	if p.MinExact < 0 || p.MinSubstring < 0 {
		return fmt.Errorf("%s: platform tier minimums must be non-negative", name)
	}
	if p.MinSubstring > p.MinExact {
		return fmt.Errorf("%s.min_substring (%d) must be <= min_exact (%d)", name, p.MinSubstring, p.MinExact)
	}
	if p.BackfillCap < 0 {
		return fmt.Errorf("%s.backfill_cap must be non-negative, got %d", name, p.BackfillCap)
	}
	if !inPercentRange(p.BackfillMinMatch) {
		return fmt.Errorf("%s.backfill_min_match must be in [0, 100], got %d", name, p.BackfillMinMatch)
	}
	if !inPercentRange(p.MatchThreshold) {
		return fmt.Errorf("%s.match_threshold must be in [0, 100], got %d", name, p.MatchThreshold)
	}
	if p.BucketCap < 0 {
		return fmt.Errorf("%s.bucket_cap must be non-negative, got %d", name, p.BucketCap)
	}
	return nil
}

func (b BoostConfig) validate() error {
	for name, v := range map[string]int{
		"manual_cap":         b.ManualCap,
		"cross_platform_cap": b.CrossPlatformCap,
		"platform_cap":       b.PlatformCap,
	} {
		if !inPercentRange(v) {
			return fmt.Errorf("boosts.%s must be in [0, 100], got %d", name, v)
		}
	}
	if b.Manual < 0 || b.CrossPlatformMatch < 0 || b.CrossPlatformInterest < 0 || b.Platform < 0 {
		return fmt.Errorf("boosts must be non-negative")
	}
	return nil
}

func (j JitterConfig) validate(name string) error {
	if j.Min > j.Max {
		return fmt.Errorf("%s.min (%d) must be <= max (%d)", name, j.Min, j.Max)
	}
	if j.Floor > j.Ceil {
		return fmt.Errorf("%s.floor (%d) must be <= ceil (%d)", name, j.Floor, j.Ceil)
	}
	if !inPercentRange(j.Floor) || !inPercentRange(j.Ceil) {
		return fmt.Errorf("%s clamp bounds must be in [0, 100]", name)
	}
	return nil
}

func (s SimilarityConfig) validate(name string) error {
	if s.GenreWeight < 0 || s.DirectorWeight < 0 || s.CastWeight < 0 {
		return fmt.Errorf("%s weights must be non-negative", name)
	}
	if s.Multiplier < 0 {
		return fmt.Errorf("%s.multiplier must be non-negative, got %d", name, s.Multiplier)
	}
	if !inPercentRange(s.Cap) {
		return fmt.Errorf("%s.cap must be in [0, 100], got %d", name, s.Cap)
	}
	return nil
}

func inPercentRange(v int) bool {
	return v >= 0 && v <= 100
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Partitions != nil {
		clone.Partitions = make([]string, len(c.Partitions))
		copy(clone.Partitions, c.Partitions)
	}
	return &clone
}

// normalizeCount applies the default and the cap to a requested count.
func (c *Config) normalizeCount(n int) int {
	if n <= 0 {
		return c.Limits.DefaultCount
	}
	if n > c.Limits.MaxCount {
		return c.Limits.MaxCount
	}
	return n
}
