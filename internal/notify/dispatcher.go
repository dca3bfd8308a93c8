// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/models"
)

// NotificationSink receives the notifications the dispatcher builds.
type NotificationSink interface {
	Put(ctx context.Context, n *models.Notification) error
}

// Dispatcher is a supervised service that turns bus events into stored
// per-user notifications: a welcome on registration and an
// acknowledgement for each feedback submission.
type Dispatcher struct {
	bus  *Bus
	sink NotificationSink
	log  zerolog.Logger
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(bus *Bus, sink NotificationSink) *Dispatcher {
	return &Dispatcher{
		bus:  bus,
		sink: sink,
		log:  logging.WithComponent("dispatcher"),
	}
}

// Serve implements suture.Service. It blocks until the context is
// cancelled, consuming registration and feedback events. A failed
// store write is logged and the message acked anyway; notifications
// are best-effort and must never wedge the bus.
func (d *Dispatcher) Serve(ctx context.Context) error {
	registered, err := d.bus.Subscribe(ctx, TopicUserRegistered)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicUserRegistered, err)
	}
	feedback, err := d.bus.Subscribe(ctx, TopicFeedbackSubmitted)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicFeedbackSubmitted, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-registered:
			if !ok {
				registered = nil
				continue
			}
			d.handle(ctx, msg, d.onUserRegistered)
		case msg, ok := <-feedback:
			if !ok {
				feedback = nil
				continue
			}
			d.handle(ctx, msg, d.onFeedbackSubmitted)
		}
	}
}

func (d *Dispatcher) String() string { return "notification-dispatcher" }

func (d *Dispatcher) handle(ctx context.Context, msg *message.Message, fn func(context.Context, []byte) error) {
	if err := fn(ctx, msg.Payload); err != nil && ctx.Err() == nil {
		d.log.Warn().Err(err).Str("message_id", msg.UUID).Msg("failed to record notification")
	}
	msg.Ack()
}

func (d *Dispatcher) onUserRegistered(ctx context.Context, payload []byte) error {
	var ev UserEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode %s event: %w", TopicUserRegistered, err)
	}
	if ev.UserID == "" {
		return fmt.Errorf("%s event without user id", TopicUserRegistered)
	}
	return d.sink.Put(ctx, &models.Notification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Kind:      models.NotificationWelcome,
		Message:   "Welcome to Pathwise! Add a few interests to get personalized recommendations.",
		CreatedAt: eventTime(ev.At),
	})
}

func (d *Dispatcher) onFeedbackSubmitted(ctx context.Context, payload []byte) error {
	var ev FeedbackEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode %s event: %w", TopicFeedbackSubmitted, err)
	}
	if ev.UserID == "" {
		return fmt.Errorf("%s event without user id", TopicFeedbackSubmitted)
	}
	return d.sink.Put(ctx, &models.Notification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Kind:      models.NotificationFeedbackReceived,
		Message:   "Thanks for your feedback! It sharpens your future recommendations.",
		ItemID:    ev.ItemID,
		CreatedAt: eventTime(ev.At),
	})
}

func eventTime(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at
}
