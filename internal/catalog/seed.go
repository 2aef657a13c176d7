// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"embed"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

//go:embed seed/*.json
var seedFS embed.FS

// SeedPartitions lists the embedded partitions in merge order.
var SeedPartitions = []string{"core", "expanded", "mega"}

// Document is the on-disk catalog format.
type Document struct {
	Partitions []Partition `json:"partitions"`
}

// LoadSeed builds a store from the embedded seed partitions with rating normalisation.
func LoadSeed() (*Store, error) {
	return LoadSeedWithOptions(true)
}

// LoadSeedWithOptions builds a store from the embedded seed partitions.
func LoadSeedWithOptions(normalizeRatings bool) (*Store, error) {
	partitions := make([]Partition, 0, len(SeedPartitions))
	for _, name := range SeedPartitions {
		data, err := seedFS.ReadFile("seed/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("read seed partition %s: %w", name, err)
		}

		var p Partition
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode seed partition %s: %w", name, err)
		}
		partitions = append(partitions, p)
	}

	return NewStore(partitions, normalizeRatings)
}

// LoadFile builds a store from a catalog document on disk.
func LoadFile(path string, normalizeRatings bool) (*Store, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseDocument(data, normalizeRatings)
}

// ParseDocument decodes a catalog document and builds a store from it.
func ParseDocument(data []byte, normalizeRatings bool) (*Store, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}
	if len(doc.Partitions) == 0 {
		return nil, fmt.Errorf("catalog document has no partitions")
	}
	return NewStore(doc.Partitions, normalizeRatings)
}
