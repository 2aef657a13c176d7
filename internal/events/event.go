// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is written into every event.
const SchemaVersion = 1

// TopicServed is the default topic for served events.
const TopicServed = "recommendations.served"

// Kinds of served responses.
const (
	KindRanked  = "ranked"
	KindGrouped = "grouped"
	KindCompact = "compact"
	KindSearch  = "search"
	KindSimilar = "similar"
)

var validKinds = map[string]struct{}{
	KindRanked:  {},
	KindGrouped: {},
	KindCompact: {},
	KindSearch:  {},
	KindSimilar: {},
}

// ServedEvent records one response that contained titles.
type ServedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	RequestID     string    `json:"request_id,omitempty"`
	Kind          string    `json:"kind"`
	Platform      string    `json:"platform,omitempty"`
	CrossPlatform bool      `json:"cross_platform,omitempty"`
	Tier          string    `json:"tier,omitempty"`
	Query         string    `json:"query,omitempty"`
	TitleIDs      []int     `json:"title_ids"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewServedEvent returns an event with a fresh ID and the current time.
func NewServedEvent(kind string, titleIDs []int) *ServedEvent {
	ids := make([]int, len(titleIDs))
	copy(ids, titleIDs)
	return &ServedEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Kind:          kind,
		TitleIDs:      ids,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *ServedEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if _, ok := validKinds[e.Kind]; !ok {
		return &ValidationError{Field: "kind", Message: "unknown kind " + e.Kind}
	}
	if e.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "required"}
	}
	return nil
}

// PlatformLabel is the platform used for aggregation.
func (e *ServedEvent) PlatformLabel() string {
	switch {
	case e.CrossPlatform:
		return "cross_platform"
	case e.Platform == "":
		return "any"
	default:
		return e.Platform
	}
}

// ValidationError reports an invalid event field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
