// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Custom tags for cinematch inputs: langcode and platform
//   - Field names reported by their JSON tag, so errors match the request body
//   - Translation to the API's VALIDATION_ERROR format
//
// # Custom tags
//
//	langcode   2 or 3 ASCII letters, e.g. "en", "te", "hin"
//	platform   empty, or up to 64 letters, digits, spaces and "+-._"
//
// The platform tag checks shape only. Unknown platforms are valid input: the
// recommendation pipeline degrades them to substring matching and backfill.
//
// # Usage
//
//	var req recommend.Request
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
