// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// RecommendComponents holds the catalog and everything built on it.
type RecommendComponents struct {
	Catalog     *catalog.Store
	Engine      *recommend.Engine
	SearchCache *cache.TTL[recommend.SearchResult]
	Analyzer    *analysis.Guard
}

// loadCatalog reads the configured catalog file, or the embedded seed
// partitions when no file is set.
func loadCatalog(cfg *config.Config) (*catalog.Store, error) {
	if cfg.Catalog.File != "" {
		store, err := catalog.LoadFile(cfg.Catalog.File, cfg.Catalog.NormalizeRatings)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.File, err)
		}
		return store, nil
	}
	store, err := catalog.LoadSeedWithOptions(cfg.Catalog.NormalizeRatings)
	if err != nil {
		return nil, fmt.Errorf("load seed catalog: %w", err)
	}
	return store, nil
}

// initRecommend builds the catalog, search cache, engine and guarded analyzer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	store, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	for _, info := range store.Info() {
		metrics.SetCatalogSize(info.Name, info.Titles)
	}

	searchCache := cache.NewTTL[recommend.SearchResult](cfg.Recommend.SearchCacheTTL, cfg.Recommend.SearchCacheCleanup)
	searchCache.SetMaxEntries(cfg.Recommend.SearchCacheSize)

	engine, err := recommend.NewEngine(cfg.RecommendOptions(), store,
		logger.With().Str("component", "recommend").Logger(),
		recommend.WithSearchCache(searchCache),
	)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	analyzer := analysis.NewGuard(
		analysis.NewSimulatedAnalyzer(cfg.AnalyzerOptions()),
		cfg.GuardOptions(),
		logger,
	)

	logger.Info().
		Strs("partitions", store.Names()).
		Int("titles", store.Len()).
		Strs("merged", cfg.Catalog.Partitions).
		Bool("normalize_ratings", cfg.Catalog.NormalizeRatings).
		Msg("Recommendation engine initialized")

	return &RecommendComponents{
		Catalog:     store,
		Engine:      engine,
		SearchCache: searchCache,
		Analyzer:    analyzer,
	}, nil
}
