// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/validation"
)

// maxJSONBody bounds recommendation request bodies.
const maxJSONBody = 1 << 20

// validateRequest runs the struct validator and converts failures to the
// VALIDATION_ERROR format.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSON reads a bounded JSON body into dst. The returned error is
// ready to send.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) (int, *models.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	// The body is read in full first: the JSON decoder does not wrap reader
	// errors, so a MaxBytesError would be indistinguishable from bad syntax.
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge, &models.APIError{
				Code:    models.ErrCodePayloadTooLarge,
				Message: "Request body too large",
			}
		}
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Failed to read request body",
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Request body is required",
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid JSON request body",
		}
	}
	return 0, nil
}

// getIntParam returns the query parameter as an int, or ok=false when it is
// present but not an integer.
func getIntParam(r *http.Request, key string, defaultValue int) (value int, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, false
	}
	return v, true
}

// getBoolParam accepts the strconv.ParseBool forms; anything else is false.
func getBoolParam(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && v
}

// parseCommaSeparated splits a comma-separated value, dropping empty parts.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func invalidParam(name, message string) *models.APIError {
	return &models.APIError{
		Code:    models.ErrCodeValidation,
		Message: message,
		Details: map[string]interface{}{"field": name},
	}
}
