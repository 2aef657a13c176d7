// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

type runFunc func(ctx context.Context, req recommend.Request) (*recommend.Result, error)

// Recommendations picks the mode from the request: grouped when no genres
// are selected, ranked otherwise.
//
// @Summary Recommend titles
// @Description Grouped by primary genre when no genres are given, otherwise a ranked list.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommend.Request true "Recommendation request"
// @Success 200 {object} models.APIResponse{data=recommend.Result}
// @Failure 400 {object} models.APIResponse
// @Router /recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.engine.Recommend)
}

// RecommendationsRanked always runs the flat ranked pipeline.
//
// @Summary Ranked recommendations
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommend.Request true "Recommendation request"
// @Success 200 {object} models.APIResponse{data=recommend.Result}
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/ranked [post]
func (h *Handler) RecommendationsRanked(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.engine.Rank)
}

// RecommendationsGrouped always buckets titles by primary genre.
//
// @Summary Grouped recommendations
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommend.Request true "Recommendation request"
// @Success 200 {object} models.APIResponse{data=recommend.Result}
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/grouped [post]
func (h *Handler) RecommendationsGrouped(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.engine.Group)
}

// RecommendationsCompact runs the grouping path with the compact limits.
//
// @Summary Compact grouped recommendations
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommend.Request true "Recommendation request"
// @Success 200 {object} models.APIResponse{data=recommend.Result}
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/compact [post]
func (h *Handler) RecommendationsCompact(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, h.engine.GroupCompact)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, run runFunc) {
	start := time.Now()

	var req recommend.Request
	if status, apiErr := decodeJSON(w, r, &req); apiErr != nil {
		respondAPIError(w, r, status, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := run(r.Context(), req)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	metrics.RecordRecommendation(string(result.Mode), string(result.Tier),
		result.Size(), result.Backfilled, result.SuggestCrossPlatform, time.Since(start))

	event := events.NewServedEvent(string(result.Mode), result.IDs())
	event.Platform = req.Platform
	event.CrossPlatform = req.CrossPlatform
	event.Tier = string(result.Tier)
	h.publishServed(r, event)

	respondSuccess(w, r, start, result)
}

// respondEngineError maps engine errors to responses.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrTitleNotFound):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Title not found", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"Request canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal,
			"Failed to produce recommendations", err)
	}
}
