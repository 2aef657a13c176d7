// Cinematch - Streaming Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// dedupWindow is how many recent event IDs are remembered for deduplication.
const dedupWindow = 4096

// TitleCount is the number of times a title was served.
type TitleCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// ServedStats is a snapshot of the consumer's totals.
type ServedStats struct {
	Events     int            `json:"events"`
	Titles     int            `json:"titles_served"`
	ByKind     map[string]int `json:"by_kind"`
	ByPlatform map[string]int `json:"by_platform"`
	TopTitles  []TitleCount   `json:"top_titles"`
	LastEvent  *time.Time     `json:"last_event,omitempty"`
}

// StatsConsumer aggregates served events from a subscriber.
type StatsConsumer struct {
	subscriber message.Subscriber
	topic      string
	logger     zerolog.Logger

	mu         sync.RWMutex
	events     int
	titles     int
	byKind     map[string]int
	byPlatform map[string]int
	byTitle    map[int]int
	lastEvent  time.Time
	seen       map[string]struct{}
	seenOrder  []string
}

// NewStatsConsumer returns a consumer for topic.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewStatsConsumer(subscriber message.Subscriber, topic string, logger zerolog.Logger) *StatsConsumer {
	return &StatsConsumer{
		subscriber: subscriber,
		topic:      topic,
		logger:     logger.With().Str("component", "events").Str("consumer", "served-stats").Logger(),
		byKind:     make(map[string]int),
		byPlatform: make(map[string]int),
		byTitle:    make(map[int]int),
		seen:       make(map[string]struct{}),
	}
}

// Serve subscribes and processes messages until ctx is done or the
// subscription closes.
func (c *StatsConsumer) Serve(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info().Str("topic", c.topic).Msg("Served-event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", c.topic)
			}
			c.handle(msg)
		}
	}
}

// handle acks malformed payloads too; redelivering them cannot help.
func (c *StatsConsumer) handle(msg *message.Message) {
	event, err := Unmarshal(msg.Payload)
	if err != nil {
		metrics.RecordEventConsumed(false)
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed served event")
		msg.Ack()
		return
	}
	metrics.RecordEventConsumed(true)
	c.Record(event)
	msg.Ack()
}

// Record adds one event to the totals. Redelivered events are skipped by ID.
func (c *StatsConsumer) Record(event *ServedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.seen[event.EventID]; dup {
		return
	}
	c.seen[event.EventID] = struct{}{}
	c.seenOrder = append(c.seenOrder, event.EventID)
	if len(c.seenOrder) > dedupWindow {
		delete(c.seen, c.seenOrder[0])
		c.seenOrder = c.seenOrder[1:]
	}

	c.events++
	c.titles += len(event.TitleIDs)
	c.byKind[event.Kind]++
	c.byPlatform[event.PlatformLabel()]++
	for _, id := range event.TitleIDs {
		c.byTitle[id]++
	}
	if event.Timestamp.After(c.lastEvent) {
		c.lastEvent = event.Timestamp
	}
}

// Snapshot returns a copy of the totals with at most top titles, most
// served first and ties by ascending id.
func (c *StatsConsumer) Snapshot(top int) ServedStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := ServedStats{
		Events:     c.events,
		Titles:     c.titles,
		ByKind:     make(map[string]int, len(c.byKind)),
		ByPlatform: make(map[string]int, len(c.byPlatform)),
		TopTitles:  make([]TitleCount, 0, len(c.byTitle)),
	}
	for k, v := range c.byKind {
		stats.ByKind[k] = v
	}
	for k, v := range c.byPlatform {
		stats.ByPlatform[k] = v
	}
	for id, n := range c.byTitle {
		stats.TopTitles = append(stats.TopTitles, TitleCount{ID: id, Count: n})
	}
	sort.Slice(stats.TopTitles, func(i, j int) bool {
		if stats.TopTitles[i].Count != stats.TopTitles[j].Count {
			return stats.TopTitles[i].Count > stats.TopTitles[j].Count
		}
		return stats.TopTitles[i].ID < stats.TopTitles[j].ID
	})
	if top >= 0 && len(stats.TopTitles) > top {
		stats.TopTitles = stats.TopTitles[:top]
	}
	if !c.lastEvent.IsZero() {
		last := c.lastEvent
		stats.LastEvent = &last
	}
	return stats
}

func (c *StatsConsumer) String() string {
	return "served-stats-consumer"
}
