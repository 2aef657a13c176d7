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

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/events"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// maxClassifyTitle bounds the title accepted by the classifier endpoint.
const maxClassifyTitle = 200

func titleIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Title returns one catalog title.
//
// @Summary Get a title
// @Tags Catalog
// @Produce json
// @Param id path int true "Title ID"
// @Success 200 {object} models.APIResponse{data=catalog.Title}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /titles/{id} [get]
func (h *Handler) Title(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := titleIDParam(r)
	if !ok {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("id", "id must be a positive integer"), nil)
		return
	}

	title, err := h.engine.Title(id)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, start, title)
}

// Similar returns titles similar to one title, best match first.
//
// @Summary Similar titles
// @Tags Catalog
// @Produce json
// @Param id path int true "Title ID"
// @Param count query int false "Number of titles"
// @Success 200 {object} models.APIResponse{data=models.SimilarResult}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /titles/{id}/similar [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := titleIDParam(r)
	if !ok {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("id", "id must be a positive integer"), nil)
		return
	}
	count, ok := getIntParam(r, "count", 0)
	if !ok || count < 0 {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("count", "count must be a non-negative integer"), nil)
		return
	}

	reference, err := h.engine.Title(id)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	titles, err := h.engine.Similar(r.Context(), id, count)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	ids := make([]int, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}
	h.publishServed(r, events.NewServedEvent(events.KindSimilar, ids))

	respondSuccess(w, r, start, &models.SimilarResult{Title: reference, Titles: titles})
}

// Partitions describes the loaded catalog and the values clients can filter on.
//
// @Summary Catalog overview
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.PartitionList}
// @Router /catalog/partitions [get]
func (h *Handler) Partitions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genres, err := h.engine.Genres(r.Context())
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	merged := h.engine.Config().Partitions
	if len(merged) == 0 {
		merged = h.catalog.Names()
	}

	platforms := recommend.Platforms()
	infos := make([]models.PlatformInfo, len(platforms))
	for i, p := range platforms {
		infos[i] = models.PlatformInfo{ID: p.ID, DisplayName: p.DisplayName, Aliases: p.Aliases}
	}

	respondSuccess(w, r, start, &models.PartitionList{
		Partitions: h.catalog.Info(),
		Merged:     merged,
		Genres:     genres,
		Platforms:  infos,
		Languages:  h.engine.Classifier().Languages(),
	})
}

// Classify infers the language of a title from its name and genres.
//
// @Summary Classify a title's language
// @Tags Catalog
// @Produce json
// @Param title query string true "Title name"
// @Param genres query string false "Comma-separated genres"
// @Success 200 {object} models.APIResponse{data=models.ClassifyResult}
// @Failure 400 {object} models.APIResponse
// @Router /languages/classify [get]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	name := strings.TrimSpace(q.Get("title"))
	if name == "" {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("title", "title is required"), nil)
		return
	}
	if len(name) > maxClassifyTitle {
		respondAPIError(w, r, http.StatusBadRequest,
			invalidParam("title", "title must be at most "+strconv.Itoa(maxClassifyTitle)+" characters"), nil)
		return
	}

	genres := parseCommaSeparated(q.Get("genres"))
	if genres == nil {
		genres = []string{}
	}

	respondSuccess(w, r, start, &models.ClassifyResult{
		Title:    name,
		Genres:   genres,
		Language: h.engine.Classify(name, genres),
	})
}
