// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
	ws "github.com/tomtom215/cinematch/internal/websocket"
)

// Search finds titles similar to a matched title, falling back to keyword
// matching.
//
// @Summary Search titles
// @Tags Search
// @Produce json
// @Param q query string true "Free-text query"
// @Param platform query string false "Platform id"
// @Param cross_platform query bool false "Ignore the platform filter"
// @Param languages query string false "Comma-separated language codes"
// @Success 200 {object} models.APIResponse{data=recommend.SearchResult}
// @Failure 400 {object} models.APIResponse
// @Router /search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	req := recommend.SearchRequest{
		Query:         q.Get("q"),
		Platform:      strings.TrimSpace(q.Get("platform")),
		CrossPlatform: getBoolParam(r, "cross_platform"),
		Languages:     parseCommaSeparated(q.Get("languages")),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	result, err := h.engine.Search(r.Context(), req)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	metrics.RecordSearch(string(result.Mode))

	ids := make([]int, len(result.Titles))
	for i := range result.Titles {
		ids[i] = result.Titles[i].ID
	}
	event := events.NewServedEvent(events.KindSearch, ids)
	event.Platform = req.Platform
	event.CrossPlatform = req.CrossPlatform
	event.Query = req.Query
	h.publishServed(r, event)

	respondSuccess(w, r, start, result)
}

// Suggest returns type-ahead suggestions for a partial query.
//
// @Summary Live suggestions
// @Tags Search
// @Produce json
// @Param q query string false "Partial title"
// @Success 200 {object} models.APIResponse{data=models.SuggestResult}
// @Failure 400 {object} models.APIResponse
// @Router /search/suggest [get]
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")
	if len(query) > ws.MaxQueryLength {
		respondAPIError(w, r, http.StatusBadRequest,
			invalidParam("q", "q must be at most "+strconv.Itoa(ws.MaxQueryLength)+" characters"), nil)
		return
	}
	metrics.RecordSuggest("http")

	titles, err := h.engine.Suggest(r.Context(), strings.TrimSpace(query))
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	if titles == nil {
		titles = []catalog.Title{}
	}

	respondSuccess(w, r, start, &models.SuggestResult{Query: query, Titles: titles})
}

// SuggestSocket upgrades to a WebSocket session that answers suggestion
// queries as the user types.
//
// @Summary Live suggestion socket
// @Description Send {"type":"query","query":"..."}; the server replies {"type":"suggestions","query":"...","titles":[...]}.
// @Tags Search
// @Success 101 "Switching Protocols"
// @Failure 503 {object} models.APIResponse
// @Router /search/suggest/ws [get]
func (h *Handler) SuggestSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"Live suggestions are disabled", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ws.NewClient(r.Context(), h.hub, conn, h.engine, h.logger).Start()
}
