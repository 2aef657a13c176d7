// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownPartition is returned when a partition name is not present in the store.
var ErrUnknownPartition = errors.New("unknown catalog partition")

// Rating scales supported by partitions.
const (
	RatingScaleTen  = 10
	RatingScaleFive = 5
)

// Partition is a separately maintained slice of the catalog.
type Partition struct {
	Name        string  `json:"name"`
	RatingScale int     `json:"rating_scale"`
	Titles      []Title `json:"titles"`
}

// PartitionInfo summarises a partition for status endpoints.
type PartitionInfo struct {
	Name        string `json:"name"`
	RatingScale int    `json:"rating_scale"`
	Titles      int    `json:"titles"`
}

// Store is an immutable, ordered collection of partitions.
type Store struct {
	partitions []Partition
	index      map[string]int
}

// NewStore builds a store from partitions in the given order.
// When normalizeRatings is true, ratings of 0-5 partitions are rescaled to 0-10.
func NewStore(partitions []Partition, normalizeRatings bool) (*Store, error) {
	s := &Store{
		partitions: make([]Partition, 0, len(partitions)),
		index:      make(map[string]int, len(partitions)),
	}

	for _, p := range partitions {
		if p.Name == "" {
			return nil, fmt.Errorf("partition at position %d has no name", len(s.partitions))
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate partition name %q", p.Name)
		}

		scale := p.RatingScale
		if scale == 0 {
			scale = RatingScaleTen
		}
		if scale != RatingScaleTen && scale != RatingScaleFive {
			return nil, fmt.Errorf("partition %q: unsupported rating scale %d", p.Name, p.RatingScale)
		}

		titles := make([]Title, len(p.Titles))
		for i, t := range p.Titles {
			titles[i] = t.Clone()
			if normalizeRatings && scale == RatingScaleFive {
				titles[i].Rating *= 2
			}
		}
		if normalizeRatings {
			scale = RatingScaleTen
		}

		s.index[p.Name] = len(s.partitions)
		s.partitions = append(s.partitions, Partition{
			Name:        p.Name,
			RatingScale: scale,
			Titles:      titles,
		})
	}

	return s, nil
}

// Names returns partition names in load order.
func (s *Store) Names() []string {
	names := make([]string, len(s.partitions))
	for i, p := range s.partitions {
		names[i] = p.Name
	}
	return names
}

// Info returns a summary of every partition in load order.
func (s *Store) Info() []PartitionInfo {
	out := make([]PartitionInfo, len(s.partitions))
	for i, p := range s.partitions {
		out[i] = PartitionInfo{Name: p.Name, RatingScale: p.RatingScale, Titles: len(p.Titles)}
	}
	return out
}

// Partition returns a copy of the titles of the named partition.
func (s *Store) Partition(name string) ([]Title, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
	}
	return cloneTitles(s.partitions[i].Titles), nil
}

// Merge concatenates the named partitions in the given order and removes
// duplicate ids, keeping the first occurrence. With no names, all partitions
// are merged in load order.
func (s *Store) Merge(names ...string) ([]Title, error) {
	if len(names) == 0 {
		names = s.Names()
	}

	total := 0
	for _, name := range names {
		i, ok := s.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPartition, name)
		}
		total += len(s.partitions[i].Titles)
	}

	merged := make([]Title, 0, total)
	for _, name := range names {
		merged = append(merged, s.partitions[s.index[name]].Titles...)
	}

	return DedupByID(cloneTitles(merged)), nil
}

// Get returns a copy of the first title with the given id across all partitions.
func (s *Store) Get(id int) (Title, bool) {
	for _, p := range s.partitions {
		for i := range p.Titles {
			if p.Titles[i].ID == id {
				return p.Titles[i].Clone(), true
			}
		}
	}
	return Title{}, false
}

// Len returns the number of distinct title ids in the store.
func (s *Store) Len() int {
	seen := make(map[int]struct{})
	for _, p := range s.partitions {
		for i := range p.Titles {
			seen[p.Titles[i].ID] = struct{}{}
		}
	}
	return len(seen)
}

// DedupByID removes titles whose id has already been seen, keeping the first.
// The input slice is reused for the result.
func DedupByID(titles []Title) []Title {
	seen := make(map[int]struct{}, len(titles))
	out := titles[:0]
	for _, t := range titles {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func cloneTitles(titles []Title) []Title {
	out := make([]Title, len(titles))
	for i := range titles {
		out[i] = titles[i].Clone()
	}
	return out
}
