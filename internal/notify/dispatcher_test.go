// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clwheeler/pathwise/internal/models"
)

type memSink struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (m *memSink) Put(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memSink) forUser(userID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func waitForNotifications(t *testing.T, sink *memSink, userID string, want int) []models.Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := sink.forUser(userID)
		if len(got) >= want {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %d notifications for %s, want %d", len(got), userID, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDispatcherRecordsNotifications(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()
	sink := &memSink{}

	d := NewDispatcher(bus, sink)
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- d.Serve(ctx) }()

	// Let Serve subscribe before publishing.
	time.Sleep(50 * time.Millisecond)

	if err := bus.Publish(TopicUserRegistered, UserEvent{UserID: "u1", At: time.Now().UTC()}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := bus.Publish(TopicFeedbackSubmitted, FeedbackEvent{UserID: "u1", ItemID: "task-9", Helpful: true}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := waitForNotifications(t, sink, "u1", 2)
	kinds := map[string]models.Notification{}
	for _, n := range got {
		kinds[n.Kind] = n
	}
	if _, ok := kinds[models.NotificationWelcome]; !ok {
		t.Error("registration event produced no welcome notification")
	}
	ack, ok := kinds[models.NotificationFeedbackReceived]
	if !ok {
		t.Fatal("feedback event produced no acknowledgement")
	}
	if ack.ItemID != "task-9" {
		t.Errorf("acknowledgement item = %q, want task-9", ack.ItemID)
	}
	for _, n := range got {
		if n.ID == "" || n.CreatedAt.IsZero() {
			t.Errorf("notification %+v missing id or timestamp", n)
		}
	}

	cancel()
	select {
	case err := <-served:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not stop on cancel")
	}
}

func TestDispatcherIgnoresMalformedEvents(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()
	sink := &memSink{}

	d := NewDispatcher(bus, sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)

	// An event with no user cannot be routed; the dispatcher must drop
	// it and keep consuming.
	if err := bus.Publish(TopicUserRegistered, UserEvent{}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := bus.Publish(TopicUserRegistered, UserEvent{UserID: "u2"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := waitForNotifications(t, sink, "u2", 1)
	if got[0].Kind != models.NotificationWelcome {
		t.Errorf("kind = %q, want %q", got[0].Kind, models.NotificationWelcome)
	}
	if all := sink.forUser(""); len(all) != 0 {
		t.Errorf("malformed event produced %d notifications", len(all))
	}
}
