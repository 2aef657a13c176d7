// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/models"
)

const (
	defaultTopTitles = 10
	maxTopTitles     = 100
)

// ServedStats reports what the API has served since startup, aggregated
// from the served-event stream.
//
// @Summary Served recommendation statistics
// @Tags Stats
// @Produce json
// @Param top query int false "Number of most served titles (max 100)"
// @Success 200 {object} models.APIResponse{data=events.ServedStats}
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /stats/served [get]
func (h *Handler) ServedStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.stats == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"Served events are disabled", nil)
		return
	}

	top, ok := getIntParam(r, "top", defaultTopTitles)
	if !ok || top < 0 {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("top", "top must be a non-negative integer"), nil)
		return
	}
	if top > maxTopTitles {
		top = maxTopTitles
	}

	respondSuccess(w, r, start, h.stats.Snapshot(top))
}
