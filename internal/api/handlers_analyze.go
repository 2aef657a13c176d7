// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/analysis"
	"github.com/tomtom215/cinematch/internal/models"
)

const (
	// multipartOverhead is allowed on top of the file for boundaries and headers.
	multipartOverhead = 64 << 10

	// multipartMemory is kept in memory before parts spill to disk.
	multipartMemory = 1 << 20
)

// Analyze infers genres from an uploaded viewing-history file.
//
// @Summary Analyze viewing history
// @Description The file content is opaque; the analyzer returns the genres it infers.
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Viewing history export"
// @Success 200 {object} models.APIResponse{data=models.AnalysisResult}
// @Failure 400 {object} models.APIResponse
// @Failure 413 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.analyzer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"History analysis is disabled", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondTooLarge(w, r)
			return
		}
		respondError(w, r, http.StatusBadRequest, models.ErrCodeBadRequest,
			"Expected a multipart form with a file field", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("file", "file is required"), nil)
		return
	}
	_ = file.Close()

	if header.Size > h.maxUploadSize {
		h.respondTooLarge(w, r)
		return
	}

	upload := analysis.Upload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}

	genres, err := h.analyzer.Analyze(r.Context(), upload)
	if err != nil {
		h.respondAnalysisError(w, r, err)
		return
	}

	respondSuccess(w, r, start, &models.AnalysisResult{
		Filename:   upload.Filename,
		Size:       upload.Size,
		Genres:     genres,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func (h *Handler) respondTooLarge(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusRequestEntityTooLarge, models.ErrCodePayloadTooLarge,
		"File exceeds "+strconv.FormatInt(h.maxUploadSize, 10)+" bytes", nil)
}

func (h *Handler) respondAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, analysis.ErrInvalidUpload):
		respondAPIError(w, r, http.StatusBadRequest, invalidParam("file", err.Error()), nil)
	case errors.Is(err, analysis.ErrRateLimited):
		respondError(w, r, http.StatusTooManyRequests, models.ErrCodeRateLimited,
			"Analyzer is busy, retry later", err)
	case errors.Is(err, analysis.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"Analyzer is temporarily unavailable", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable,
			"Analysis canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal,
			"Analysis failed", err)
	}
}
