// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package notify is the in-process event bus. Handlers that react to
// catalog and feedback changes (the background indexer, metrics)
// subscribe here instead of being called inline from request paths.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/logging"
)

// Topics carried on the bus.
const (
	TopicFeedbackSubmitted = "feedback.submitted"
	TopicItemImported      = "item.imported"
	TopicUserRegistered    = "user.registered"
)

// FeedbackEvent announces a stored feedback record.
type FeedbackEvent struct {
	UserID  string    `json:"user_id"`
	ItemID  string    `json:"item_id"`
	Helpful bool      `json:"helpful"`
	At      time.Time `json:"at"`
}

// ItemEvent announces a new catalog item.
type ItemEvent struct {
	ItemID string    `json:"item_id"`
	Title  string    `json:"title"`
	At     time.Time `json:"at"`
}

// UserEvent announces a new user registration.
type UserEvent struct {
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// Bus wraps a Watermill in-process pub/sub channel.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. Subscribers that fall behind buffer up to
// the configured channel size; publishes never block request handlers
// beyond that buffer.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, newLoggerAdapter()),
	}
}

// Publish sends one event on topic. The payload is JSON.
func (b *Bus) Publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns the message stream for topic. Consumers must Ack
// every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return ch, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// loggerAdapter routes Watermill logs to zerolog.
type loggerAdapter struct {
	fields watermill.LogFields
}

func newLoggerAdapter() watermill.LoggerAdapter {
	return &loggerAdapter{}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	logger := logging.WithComponent("notify")
	l.event(logger.Error().Err(err), fields).Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	logger := logging.WithComponent("notify")
	l.event(logger.Debug(), fields).Msg(msg)
}

func (l *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	logger := logging.WithComponent("notify")
	l.event(logger.Debug(), fields).Msg(msg)
}

func (l *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	logger := logging.WithComponent("notify")
	l.event(logger.Trace(), fields).Msg(msg)
}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	merged := make(watermill.LogFields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &loggerAdapter{fields: merged}
}

func (l *loggerAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range l.fields {
		e = e.Interface(k, v)
	}
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
