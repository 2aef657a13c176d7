// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"errors"
	"fmt"
	"time"
)

// Transports.
const (
	TransportChannel  = "channel"
	TransportNATS     = "nats"
	TransportEmbedded = "embedded"
)

// ErrInvalidConfig is returned for unusable bus settings.
var ErrInvalidConfig = errors.New("invalid events configuration")

// Config selects and tunes the transport.
type Config struct {
	Transport string
	Topic     string

	// URL of the external server for the nats transport.
	URL string

	// Listen address of the embedded server; port -1 picks a free port.
	EmbeddedHost string
	EmbeddedPort int

	// QueueGroup lets several instances share one consumer stream.
	QueueGroup string

	// BufferSize is the GoChannel output buffer.
	BufferSize int64

	MaxReconnects int
	ReconnectWait time.Duration
	CloseTimeout  time.Duration
}

// DefaultConfig uses the in-process channel transport.
func DefaultConfig() Config {
	return Config{
		Transport:     TransportChannel,
		Topic:         TopicServed,
		URL:           "nats://127.0.0.1:4222",
		EmbeddedHost:  "127.0.0.1",
		EmbeddedPort:  4222,
		BufferSize:    256,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		CloseTimeout:  5 * time.Second,
	}
}

// Validate checks the transport and its required settings.
func (c *Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	switch c.Transport {
	case TransportChannel:
	case TransportNATS:
		if c.URL == "" {
			return fmt.Errorf("%w: url is required for the nats transport", ErrInvalidConfig)
		}
	case TransportEmbedded:
		if c.EmbeddedPort < -1 || c.EmbeddedPort > 65535 {
			return fmt.Errorf("%w: embedded port %d out of range", ErrInvalidConfig, c.EmbeddedPort)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	}
	return nil
}
