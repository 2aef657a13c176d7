// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package websocket

import (
	"github.com/tomtom215/cinematch/internal/catalog"
)

// Message types.
const (
	MessageTypeQuery       = "query"
	MessageTypeSuggestions = "suggestions"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeError       = "error"
)

// MaxQueryLength bounds a single query.
const MaxQueryLength = 200

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

// ServerMessage is a pong or error reply.
type ServerMessage struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// SuggestionsMessage answers a query. Titles is never null.
type SuggestionsMessage struct {
	Type   string          `json:"type"`
	Query  string          `json:"query"`
	Titles []catalog.Title `json:"titles"`
}

func suggestionsMessage(query string, titles []catalog.Title) SuggestionsMessage {
	if titles == nil {
		titles = []catalog.Title{}
	}
	return SuggestionsMessage{Type: MessageTypeSuggestions, Query: query, Titles: titles}
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: MessageTypeError, Error: text}
}
