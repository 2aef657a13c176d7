// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package websocket

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

// Suggester produces live suggestions for a query.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]catalog.Title, error)
}

var clientIDCounter atomic.Uint64

// Client is one suggestion session.
type Client struct {
	id        uint64
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	suggester Suggester
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	send   chan any
	closed bool
}

// NewClient wraps an upgraded connection. The session context is derived from
// ctx without its cancellation, so it outlives the upgrade request.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, suggester Suggester, logger zerolog.Logger) *Client {
	sessionID := logging.GenerateSessionID()
	sessionCtx, cancel := context.WithCancel(logging.ContextWithSessionID(context.WithoutCancel(ctx), sessionID))

	return &Client{
		id:        clientIDCounter.Add(1),
		sessionID: sessionID,
		hub:       hub,
		conn:      conn,
		suggester: suggester,
		logger:    logger.With().Str("session_id", sessionID).Logger(),
		ctx:       sessionCtx,
		cancel:    cancel,
		send:      make(chan any, sendBuffer),
	}
}

// ID orders clients deterministically.
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID identifies the session in logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Start registers the client and runs its pumps. The connection is closed
// immediately when the hub is shutting down.
func (c *Client) Start() {
	if !c.hub.Register(c) {
		c.cancel()
		_ = c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// enqueue drops the message when the session is closed or its buffer is full.
func (c *Client) enqueue(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		return false
	}
}

// closeSend ends the write pump. Safe to call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
		c.cancel()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				c.logger.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if reply := c.handle(data); reply != nil {
			c.enqueue(reply)
		}
	}
}

// handle returns the reply for one client frame.
func (c *Client) handle(data []byte) any {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		return errorMessage("invalid message")
	}

	switch msg.Type {
	case MessageTypePing:
		return ServerMessage{Type: MessageTypePong}

	case MessageTypeQuery:
		if len(msg.Query) > MaxQueryLength {
			return errorMessage("query too long")
		}
		metrics.RecordSuggest("websocket")

		titles, err := c.suggester.Suggest(c.ctx, strings.TrimSpace(msg.Query))
		if err != nil {
			logging.Ctx(c.ctx).Warn().Err(err).Msg("suggestion lookup failed")
			return errorMessage("suggestions unavailable")
		}
		return suggestionsMessage(msg.Query, titles)

	default:
		return errorMessage("unknown message type")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}

			payload, err := json.Marshal(msg)
			if err != nil {
				metrics.WSErrors.WithLabelValues("encode").Inc()
				c.logger.Error().Err(err).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
