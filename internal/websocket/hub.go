// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// ShutdownReason is logged when the hub stops.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Hub tracks open suggestion sessions.
type Hub struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	stopping bool
}

// NewHub returns an empty hub.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger.With().Str("component", "websocket-hub").Logger(),
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a client. It returns false while the hub is shutting down.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopping {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.WSConnections.Inc()
	h.logger.Debug().Str("session_id", c.sessionID).Int("total_clients", len(h.clients)).Msg("websocket client connected")
	return true
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.closeSend()
	metrics.WSConnections.Dec()
	h.logger.Debug().Str("session_id", c.sessionID).Int("total_clients", len(h.clients)).Msg("websocket client disconnected")
}

// ClientCount returns the number of open sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve accepts sessions until ctx is done, then closes all of them.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	h.stopping = false
	h.mu.Unlock()

	<-ctx.Done()

	closed := h.closeAll()
	h.logger.Info().
		Str("reason", string(shutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
	return ctx.Err()
}

func (h *Hub) String() string {
	return "websocket-hub"
}

// closeAll closes sessions in connection order.
func (h *Hub) closeAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopping = true

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, c := range clients {
		c.closeSend()
		delete(h.clients, c)
		metrics.WSConnections.Dec()
	}
	return len(clients)
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}
