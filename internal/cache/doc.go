// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides the in-memory data structures shared by the engine and the API.

# Pattern Matching

Matcher is a case-insensitive Aho-Corasick automaton. Every pattern carries a typed
value, and a single pass over the text reports all patterns it contains:

	m := cache.NewMatcher[int]()
	m.Add("rrr", 0)
	m.Add("baahubali", 0)
	m.Add("vikram", 1)
	m.Build()

	matches := m.FindAll("Baahubali: The Beginning")
	// matches[0].Value == 0

The language classifier uses one Matcher per pattern kind, with the value set to the
priority of the language group that owns the pattern.

# Result Caching

TTL is a typed time-to-live cache used to memoise deterministic results such as
search responses. Expired entries are removed lazily on Get and periodically by
Serve, which is run as a supervised service:

	c := cache.NewTTL[SearchResult](5*time.Minute, time.Minute)
	tree.AddWorkerService(c)

	key := cache.GenerateKey("search", req)
	if v, ok := c.Get(key); ok {
	    return v
	}

# Thread Safety

Both types are safe for concurrent use. A Matcher must be built before searching;
searches on an unbuilt matcher return no matches.
*/
package cache
