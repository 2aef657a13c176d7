// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Catalog is the read-only title source the engine merges for every run.
// *catalog.Store implements it.
type Catalog interface {
	// Merge concatenates the named partitions (all when none are given) and
	// returns copies deduplicated by id, first occurrence winning.
	Merge(names ...string) ([]catalog.Title, error)

	// Get returns a copy of the title with the given id.
	Get(id int) (catalog.Title, bool)
}

// Engine produces recommendations, groupings, searches and suggestions from a
// catalog. It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config  *Config
	catalog Catalog
	logger  zerolog.Logger

	classifier  *Classifier
	boostScorer Scorer
	rankScorer  Scorer

	// rng drives shuffle and jitter. Implementations must be safe for concurrent use.
	rng RandomSource

	// searchCache memoises deterministic search results. Optional.
	searchCache *cache.TTL[SearchResult]
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandomSource replaces the seeded default random source.
func WithRandomSource(r RandomSource) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithClassifier replaces the default language classifier.
func WithClassifier(c *Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithSearchCache memoises search results in c.
func WithSearchCache(c *cache.TTL[SearchResult]) Option {
	return func(e *Engine) {
		e.searchCache = c
	}
}

// NewEngine creates a recommendation engine over titles.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, titles Catalog, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if titles == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Fail fast on unknown partitions instead of on the first request.
	if _, err := titles.Merge(cfg.Partitions...); err != nil {
		return nil, fmt.Errorf("invalid partitions: %w", err)
	}

	e := &Engine{
		config:      cfg.Clone(),
		catalog:     titles,
		logger:      logger.With().Str("component", "recommend").Logger(),
		boostScorer: NewScorer(cfg.BoostSimilarity),
		rankScorer:  NewScorer(cfg.RankSimilarity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.classifier == nil {
		e.classifier = NewClassifier(nil)
	}
	if e.rng == nil {
		e.rng = NewSeededSource(cfg.Seed)
	}

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Classifier returns the engine's language classifier.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Recommend runs genre grouping when no genres are selected and the flat
// ranked pipeline otherwise.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if len(req.Genres) == 0 {
		return e.Group(ctx, req)
	}
	return e.Rank(ctx, req)
}

// Rank runs the flat pipeline and returns a shuffled, truncated, jittered list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Rank(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}

	result := e.rank(merged, &req)
	e.logResult(result, start)
	return result, nil
}

// Group runs the genre grouping path with the grouped constants.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Group(ctx context.Context, req Request) (*Result, error) {
	return e.runGroup(ctx, &req, ModeGrouped, e.config.Grouped)
}

// GroupCompact runs the genre grouping path with the compact constants.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) GroupCompact(ctx context.Context, req Request) (*Result, error) {
	return e.runGroup(ctx, &req, ModeCompact, e.config.Compact)
}

//nolint:gocritic // hugeParam: path config is read-only
func (e *Engine) runGroup(ctx context.Context, req *Request, mode Mode, path PathConfig) (*Result, error) {
	start := time.Now()
	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}

	result := e.group(merged, req, mode, path)
	e.logResult(result, start)
	return result, nil
}

// Search finds titles for a free-text query. Results are deterministic and
// memoised when a search cache is configured.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	key := ""
	if e.searchCache != nil {
		key = cache.GenerateKey("search", req)
		cached, ok := e.searchCache.Get(key)
		metrics.RecordCacheLookup("search", ok)
		if ok {
			return cached.clone(), nil
		}
	}

	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}

	result := e.search(merged, req)
	e.logger.Debug().
		Str("mode", string(result.Mode)).
		Int("matched_id", result.MatchedID).
		Int("results", len(result.Titles)).
		Msg("search completed")

	if e.searchCache != nil && result.Mode != SearchModeNone {
		e.searchCache.Set(key, *result.clone())
		metrics.SetCacheSize("search", e.searchCache.Len())
	}
	return result, nil
}

// Suggest returns live type-ahead suggestions for query.
func (e *Engine) Suggest(ctx context.Context, query string) ([]catalog.Title, error) {
	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}
	return suggest(merged, query, e.config.Limits.Suggestions), nil
}

// Similar returns titles similar to the title with id, scored with the boost
// variant and sorted by adjusted match percentage. Zero count uses the default.
func (e *Engine) Similar(ctx context.Context, id, count int) ([]catalog.Title, error) {
	reference, ok := e.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("title %d: %w", id, ErrTitleNotFound)
	}

	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		count = e.config.Limits.SimilarDefault
	}
	if count > e.config.Limits.MaxCount {
		count = e.config.Limits.MaxCount
	}
	return rankSimilar(e.boostScorer, reference, merged, count), nil
}

// Title returns a copy of the title with id.
func (e *Engine) Title(id int) (catalog.Title, error) {
	t, ok := e.catalog.Get(id)
	if !ok {
		return catalog.Title{}, fmt.Errorf("title %d: %w", id, ErrTitleNotFound)
	}
	return t, nil
}

// Classify returns the inferred language code for a title and its genres.
func (e *Engine) Classify(title string, genres []string) string {
	return e.classifier.Classify(title, genres)
}

// Genres returns every genre in the merged catalog, sorted.
func (e *Engine) Genres(ctx context.Context) ([]string, error) {
	merged, err := e.merged(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range merged {
		for _, g := range merged[i].Genres {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				out = append(out, g)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// merged returns a fresh copy of the configured partitions.
func (e *Engine) merged(ctx context.Context) ([]catalog.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	titles, err := e.catalog.Merge(e.config.Partitions...)
	if err != nil {
		return nil, fmt.Errorf("merge catalog: %w", err)
	}
	return titles, nil
}

func (e *Engine) logResult(result *Result, start time.Time) {
	e.logger.Debug().
		Str("mode", string(result.Mode)).
		Str("platform_tier", string(result.Tier)).
		Int("pool_before_backfill", result.PoolBeforeBackfill).
		Int("backfilled", result.Backfilled).
		Int("available", result.Available).
		Int("returned", result.Size()).
		Bool("suggest_cross_platform", result.SuggestCrossPlatform).
		Dur("duration", time.Since(start)).
		Msg("recommendation run completed")
}
