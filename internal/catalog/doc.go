// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package catalog provides the read-only title catalog used by the recommendation engine.

The catalog is organised into named partitions ("core", "expanded", "mega") that are
maintained separately and concatenated on demand. Partitions may share title ids; Merge
keeps the first occurrence of each id so downstream stages never see duplicates.

# Rating Scales

Most partitions rate titles on a 0-10 scale. Legacy partitions declare a 0-5 scale and
are normalised to 0-10 when the Store is built:

	store, err := catalog.NewStore(partitions, true)

# Seed Data

The default catalog is embedded in the binary:

	store, err := catalog.LoadSeed()
	titles := store.Merge() // all partitions, deduplicated by id

An alternative catalog document with the same JSON shape can be loaded with LoadFile.

# Thread Safety

A Store is immutable after construction. All accessors return copies, so callers may
adjust scores on returned titles without affecting the catalog.
*/
package catalog
