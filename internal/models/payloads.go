// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// Health status values.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthStatus is returned by the liveness and readiness probes.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ClassifyResult is the language inferred for a title.
type ClassifyResult struct {
	Title    string   `json:"title"`
	Genres   []string `json:"genres"`
	Language string   `json:"language"`
}

// AnalysisResult is the analyzer output for an uploaded history file.
type AnalysisResult struct {
	Filename   string   `json:"filename"`
	Size       int64    `json:"size"`
	Genres     []string `json:"genres"`
	DurationMS int64    `json:"duration_ms"`
}

// PlatformInfo describes a streaming platform the engine can match.
type PlatformInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
}

// PartitionList describes the loaded catalog.
type PartitionList struct {
	Partitions []catalog.PartitionInfo `json:"partitions"`
	Merged     []string                `json:"merged"`
	Genres     []string                `json:"genres"`
	Platforms  []PlatformInfo          `json:"platforms"`
	Languages  []string                `json:"languages"`
}

// SimilarResult lists titles similar to a reference title.
type SimilarResult struct {
	Title  catalog.Title   `json:"title"`
	Titles []catalog.Title `json:"titles"`
}

// SuggestResult is the HTTP form of live suggestions.
type SuggestResult struct {
	Query  string          `json:"query"`
	Titles []catalog.Title `json:"titles"`
}
