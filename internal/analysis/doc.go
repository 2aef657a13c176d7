// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package analysis turns an uploaded viewing history into a list of genres.

The engine never sees files. A participant's upload is handed to an Analyzer, and
only the resolved genre list becomes part of the recommendation request.

# Simulated Analyzer

SimulatedAnalyzer stands in for real history parsing. It waits a random delay
between MinDelay and MaxDelay (800 ms and 2 s by default) and then returns a copy
of a fixed genre list. The call is all or nothing: when the context is cancelled
during the delay the caller gets the context error and no genres.

# Guard

Guard wraps any Analyzer with a token bucket limiter and a circuit breaker:

	analyzer := analysis.NewGuard(analysis.NewSimulatedAnalyzer(cfg), analysis.DefaultGuardConfig(), logger)

	genres, err := analyzer.Analyze(ctx, upload)
	switch {
	case errors.Is(err, analysis.ErrRateLimited):
	    // 429
	case errors.Is(err, analysis.ErrUnavailable):
	    // 503, breaker open
	}

Breaker state changes are logged and exported through the circuit_breaker_*
metrics under the breaker name ("history-analyzer" by default). Cancelled
requests do not count as breaker failures.
*/
package analysis
