// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements the title recommendation engine.
//
// # Architecture
//
// The engine turns a merged catalog plus per-request user signals into scored
// title copies. It is built from small, independently testable parts:
//
//   - Classifier: infers a language code from a title and its genres
//   - Scorer: pairwise similarity between two titles (boost and rank variants)
//   - Pipeline: the fixed sequence of filter and boost stages for flat results
//   - Grouping: buckets surviving titles by primary genre
//   - Search: best-match similarity ranking with a keyword fallback
//   - Suggest: plain substring type-ahead over the catalog
//
// # Pipeline Stages
//
// Flat (ranked) recommendations run these stages in order:
//
//  1. merge catalog partitions
//  2. language filter
//  3. manual title and history genre boost
//  4. platform filter (exact, substring and alias, then top-match backfill)
//  5. match threshold
//  6. genre filter
//  7. watched exclusion
//  8. currently shown exclusion ("load more")
//  9. cross-platform boost
//  10. platform boost
//  11. dedup by id, first occurrence wins
//  12. shuffle and truncate
//  13. score jitter, clamped
//
// Genre grouping runs stages 1, 2, 4, 5, 7 and 11, then buckets by primary
// genre with a smaller jitter.
//
// # Call-Site Constants
//
// Thresholds, caps and tier sizes differ between the ranked, grouped and
// compact grouped paths. They are kept as separate PathConfig values instead
// of being unified, since unifying them changes observable output.
//
// # Randomness
//
// Shuffle and jitter draw from a RandomSource. Production engines use a
// seeded math/rand source; tests inject a fixed source so results are exact:
//
//	engine, err := recommend.NewEngine(cfg, store, logger,
//	    recommend.WithRandomSource(recommend.NewSeededSource(7)))
//
// # Thread Safety
//
// The engine never mutates catalog records or request inputs. Every run works
// on copies, so Engine is safe for concurrent use without request-level locks.
package recommend
