// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Bus owns the Watermill publisher and subscriber for one transport.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	shared     bool
	embedded   *EmbeddedServer
	topic      string
	transport  string
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus connects the configured transport. For the embedded transport the
// NATS server is started first.
func NewBus(cfg Config, logger watermill.LoggerAdapter) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	b := &Bus{topic: cfg.Topic, transport: cfg.Transport, logger: logger}

	switch cfg.Transport {
	case TransportChannel:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		b.publisher = ch
		b.subscriber = ch
		b.shared = true

	case TransportEmbedded:
		srv, err := NewEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
		if err != nil {
			return nil, err
		}
		b.embedded = srv
		cfg.URL = srv.ClientURL()
		if err := b.connectNATS(cfg); err != nil {
			srv.Shutdown()
			return nil, err
		}

	case TransportNATS:
		if err := b.connectNATS(cfg); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Bus) connectNATS(cfg Config) error {
	logger := b.logger
	natsOpts := []natsgo.Option{
		natsgo.Name("cinematch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return fmt.Errorf("create NATS subscriber: %w", err)
	}

	b.publisher = pub
	b.subscriber = sub
	return nil
}

// Topic is the topic served events are published to.
func (b *Bus) Topic() string {
	return b.topic
}

// Transport is the configured transport name.
func (b *Bus) Transport() string {
	return b.transport
}

// Embedded returns the in-process server, or nil for other transports.
func (b *Bus) Embedded() *EmbeddedServer {
	return b.embedded
}

// Subscriber exposes the Watermill subscriber to consumers.
func (b *Bus) Subscriber() message.Subscriber {
	return b.subscriber
}

// Publish encodes and sends a served event.
func (b *Bus) Publish(_ context.Context, event *ServedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := Marshal(event)
	if err != nil {
		metrics.RecordEventPublished(event.Kind, err)
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("kind", event.Kind)
	if event.RequestID != "" {
		msg.Metadata.Set("request_id", event.RequestID)
	}

	err = b.publisher.Publish(b.topic, msg)
	metrics.RecordEventPublished(event.Kind, err)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Kind, err)
	}
	return nil
}

// Close stops the publisher, the subscriber and the embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if !b.shared {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.embedded != nil {
		b.embedded.Shutdown()
	}
	return errors.Join(errs...)
}
