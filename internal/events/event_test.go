// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"errors"
	"testing"
	"time"
)

func TestNewServedEvent(t *testing.T) {
	t.Parallel()

	ids := []int{3, 1, 2}
	e := NewServedEvent(KindRanked, ids)
	ids[0] = 99

	if e.EventID == "" {
		t.Error("EventID should be set")
	}
	if e.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d", e.SchemaVersion)
	}
	if e.TitleIDs[0] != 3 {
		t.Errorf("TitleIDs shares caller slice: %v", e.TitleIDs)
	}
	if time.Since(e.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v", e.Timestamp)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestServedEventValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*ServedEvent)
		field string
	}{
		{"missing id", func(e *ServedEvent) { e.EventID = "" }, "event_id"},
		{"unknown kind", func(e *ServedEvent) { e.Kind = "trending" }, "kind"},
		{"zero time", func(e *ServedEvent) { e.Timestamp = time.Time{} }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewServedEvent(KindSearch, nil)
			tt.edit(e)

			err := e.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestPlatformLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform string
		cross    bool
		want     string
	}{
		{"netflix", false, "netflix"},
		{"netflix", true, "cross_platform"},
		{"", false, "any"},
	}
	for _, tt := range tests {
		e := &ServedEvent{Platform: tt.platform, CrossPlatform: tt.cross}
		if got := e.PlatformLabel(); got != tt.want {
			t.Errorf("PlatformLabel(%q, %v) = %q, want %q", tt.platform, tt.cross, got, tt.want)
		}
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	t.Parallel()

	e := NewServedEvent(KindSimilar, []int{7, 23})
	e.RequestID = "req-1"
	e.Platform = "aha"

	data, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if got.EventID != e.EventID || got.Kind != KindSimilar || got.RequestID != "req-1" || got.Platform != "aha" {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.TitleIDs) != 2 || got.TitleIDs[1] != 23 {
		t.Errorf("TitleIDs = %v", got.TitleIDs)
	}

	if _, err := Marshal(&ServedEvent{}); err == nil {
		t.Error("Marshal of invalid event should fail")
	}
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal of garbage should fail")
	}
	if _, err := Unmarshal([]byte(`{"event_id":"x","kind":"nope","timestamp":"2026-01-01T00:00:00Z"}`)); err == nil {
		t.Error("Unmarshal of invalid event should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"nats", func(c *Config) { c.Transport = TransportNATS }, false},
		{"nats without url", func(c *Config) { c.Transport = TransportNATS; c.URL = "" }, true},
		{"embedded random port", func(c *Config) { c.Transport = TransportEmbedded; c.EmbeddedPort = -1 }, false},
		{"embedded bad port", func(c *Config) { c.Transport = TransportEmbedded; c.EmbeddedPort = 70000 }, true},
		{"unknown transport", func(c *Config) { c.Transport = "kafka" }, true},
		{"no topic", func(c *Config) { c.Topic = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}
