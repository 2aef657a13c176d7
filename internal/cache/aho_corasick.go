// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Matcher finds every occurrence of a set of patterns in a text in a single
// pass (Aho-Corasick). Matching is case-insensitive and ignores word boundaries,
// so "rrr" matches "RRR: Rise Roar Revolt" and "hit" matches "white".
type Matcher[T any] struct {
	mu       sync.RWMutex
	root     *matchNode
	patterns []matcherPattern[T]
	built    bool
}

type matcherPattern[T any] struct {
	text  string
	value T
}

type matchNode struct {
	children map[rune]*matchNode
	fail     *matchNode
	output   []int // indices into patterns ending at this node
}

// Match is a single pattern occurrence.
type Match[T any] struct {
	Pattern string
	Value   T
	// Position is the byte offset of the match in the lower-cased text.
	Position int
}

// NewMatcher creates an empty matcher.
func NewMatcher[T any]() *Matcher[T] {
	return &Matcher[T]{root: newMatchNode()}
}

func newMatchNode() *matchNode {
	return &matchNode{children: make(map[rune]*matchNode)}
}

// Add registers a pattern with its value. Blank patterns are ignored.
// Adding after Build marks the matcher for rebuilding.
func (m *Matcher[T]) Add(pattern string, value T) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.patterns = append(m.patterns, matcherPattern[T]{text: pattern, value: value})
	m.built = false
}

// AddAll registers several patterns sharing one value.
func (m *Matcher[T]) AddAll(patterns []string, value T) {
	for _, p := range patterns {
		m.Add(p, value)
	}
}

// Build constructs the trie and failure links. It is a no-op when nothing changed.
func (m *Matcher[T]) Build() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.built {
		return
	}

	m.root = newMatchNode()
	for i, p := range m.patterns {
		node := m.root
		for _, ch := range p.text {
			next, ok := node.children[ch]
			if !ok {
				next = newMatchNode()
				node.children[ch] = next
			}
			node = next
		}
		node.output = append(node.output, i)
	}

	m.linkFailures()
	m.built = true
}

// linkFailures sets failure links breadth-first and merges outputs along them.
func (m *Matcher[T]) linkFailures() {
	queue := make([]*matchNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.fail = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.fail
			for fail != nil && fail.children[ch] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
				continue
			}
			child.fail = fail.children[ch]
			child.output = append(child.output, child.fail.output...)
		}
	}
}

// FindAll returns every pattern occurrence in text, ordered by end position.
func (m *Matcher[T]) FindAll(text string) []Match[T] {
	var matches []Match[T]
	m.scan(text, func(match Match[T]) bool {
		matches = append(matches, match)
		return true
	})
	return matches
}

// First returns the occurrence that ends earliest in text.
func (m *Matcher[T]) First(text string) (Match[T], bool) {
	var (
		found Match[T]
		ok    bool
	)
	m.scan(text, func(match Match[T]) bool {
		found, ok = match, true
		return false
	})
	return found, ok
}

// Contains reports whether any pattern occurs in text.
func (m *Matcher[T]) Contains(text string) bool {
	_, ok := m.First(text)
	return ok
}

// Len returns the number of registered patterns.
func (m *Matcher[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.patterns)
}

// scan walks the automaton over text and calls emit for each match until emit returns false.
func (m *Matcher[T]) scan(text string, emit func(Match[T]) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.built || len(m.patterns) == 0 {
		return
	}

	node := m.root
	for i, ch := range strings.ToLower(text) {
		for node != m.root && node.children[ch] == nil {
			node = node.fail
		}
		if next, ok := node.children[ch]; ok {
			node = next
		}

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			p := m.patterns[idx]
			if !emit(Match[T]{Pattern: p.text, Value: p.value, Position: end - len(p.text)}) {
				return
			}
		}
	}
}
