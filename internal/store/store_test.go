// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clwheeler/pathwise/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestItemRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	emb := make([]float32, models.EmbeddingDim)
	emb[0] = 0.5
	item := &models.LearningItem{
		ID:         "go-101",
		Title:      "Go 101",
		Kind:       models.KindCourse,
		Tags:       []string{"go", "basics"},
		Difficulty: models.DifficultyBeginner,
		Rating:     4.2,
		Active:     true,
		Embedding:  emb,
	}
	if err := s.Items.Put(ctx, item); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Items.Get(ctx, "go-101")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Go 101" || got.Difficulty != models.DifficultyBeginner {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Embedding) != models.EmbeddingDim || got.Embedding[0] != 0.5 {
		t.Error("embedding not preserved")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestItemNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Items.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestItemRejectsMalformedEmbedding(t *testing.T) {
	s := openTestStore(t)
	item := &models.LearningItem{ID: "bad", Embedding: []float32{1, 2, 3}}
	if err := s.Items.Put(context.Background(), item); err == nil {
		t.Error("Put() accepted a malformed embedding")
	}
}

func TestListActiveFiltersInactive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Items.Put(ctx, &models.LearningItem{ID: "on", Active: true})
	_ = s.Items.Put(ctx, &models.LearningItem{ID: "off", Active: false})

	got, err := s.Items.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "on" {
		t.Errorf("ListActive() = %v, want only the active item", got)
	}
}

func TestListWithoutEmbeddings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	emb := make([]float32, models.EmbeddingDim)
	_ = s.Items.Put(ctx, &models.LearningItem{ID: "indexed", Active: true, Embedding: emb})
	_ = s.Items.Put(ctx, &models.LearningItem{ID: "pending-1", Active: true})
	_ = s.Items.Put(ctx, &models.LearningItem{ID: "pending-2", Active: true})
	_ = s.Items.Put(ctx, &models.LearningItem{ID: "inactive", Active: false})

	got, err := s.Items.ListWithoutEmbeddings(ctx, 10)
	if err != nil {
		t.Fatalf("ListWithoutEmbeddings() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}

	capped, _ := s.Items.ListWithoutEmbeddings(ctx, 1)
	if len(capped) != 1 {
		t.Errorf("limit not applied: got %d", len(capped))
	}
}

func TestUserRoundTripKeepsPasswordHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	profile := &models.UserProfile{
		ID:           "u1",
		Email:        "u1@example.com",
		Interests:    []string{"go"},
		SkillLevel:   models.DifficultyIntermediate,
		PasswordHash: []byte("bcrypt-hash"),
	}
	if err := s.Users.Put(ctx, profile); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Users.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.PasswordHash) != "bcrypt-hash" {
		t.Error("password hash not preserved through storage")
	}
	if got.SkillLevel != models.DifficultyIntermediate {
		t.Errorf("skill level = %v", got.SkillLevel)
	}

	byEmail, err := s.Users.GetByEmail(ctx, "u1@example.com")
	if err != nil || byEmail.ID != "u1" {
		t.Errorf("GetByEmail() = %v, %v", byEmail, err)
	}
}

func TestRecordInteraction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Users.Put(ctx, &models.UserProfile{ID: "u1"})
	err := s.Users.RecordInteraction(ctx, "u1", "item-9", models.Interaction{Status: models.StatusCompleted})
	if err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}

	got, _ := s.Users.Get(ctx, "u1")
	if got.Interactions["item-9"].Status != models.StatusCompleted {
		t.Errorf("interaction not recorded: %+v", got.Interactions)
	}
}

func TestFeedbackLatestWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &models.FeedbackRecord{UserID: "u1", ItemID: "t1", Helpful: false, DifficultyRating: 2}
	second := &models.FeedbackRecord{UserID: "u1", ItemID: "t1", Helpful: true, DifficultyRating: 4}
	if err := s.Feedback.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Feedback.Put(ctx, second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Feedback.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1 (latest write wins)", len(got))
	}
	if !got[0].Helpful || got[0].DifficultyRating != 4 {
		t.Errorf("record = %+v, want the second write", got[0])
	}

	byItem, err := s.Feedback.ForItem(ctx, "t1")
	if err != nil {
		t.Fatalf("ForItem() error = %v", err)
	}
	if len(byItem) != 1 || !byItem[0].Helpful {
		t.Errorf("ForItem() = %v, want the second write", byItem)
	}
}

func TestFeedbackForUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Feedback.Put(ctx, &models.FeedbackRecord{UserID: "a", ItemID: "x", Helpful: true})
	_ = s.Feedback.Put(ctx, &models.FeedbackRecord{UserID: "b", ItemID: "y", Helpful: true})
	_ = s.Feedback.Put(ctx, &models.FeedbackRecord{UserID: "c", ItemID: "z", Helpful: true})

	got, err := s.Feedback.ForUsers(ctx, []string{"a", "c"})
	if err != nil {
		t.Fatalf("ForUsers() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.UserID == "b" {
			t.Error("record from excluded user returned")
		}
	}
}

func TestFeedbackUserPrefixIsolation(t *testing.T) {
	// "u1" must not match records belonging to "u12".
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Feedback.Put(ctx, &models.FeedbackRecord{UserID: "u1", ItemID: "a", Helpful: true})
	_ = s.Feedback.Put(ctx, &models.FeedbackRecord{UserID: "u12", ItemID: "b", Helpful: true})

	got, err := s.Feedback.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(got) != 1 || got[0].ItemID != "a" {
		t.Errorf("ForUser(u1) = %v, want only u1's record", got)
	}
}

func TestNotificationsForUserNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		err := s.Notifications.Put(ctx, &models.Notification{
			ID:        id,
			UserID:    "u1",
			Kind:      models.NotificationWelcome,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}
	_ = s.Notifications.Put(ctx, &models.Notification{ID: "other", UserID: "u2", Kind: models.NotificationWelcome})

	got, err := s.Notifications.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d notifications, want 3", len(got))
	}
	wantOrder := []string{"n3", "n2", "n1"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestNotificationRequiresIDs(t *testing.T) {
	s := openTestStore(t)
	if err := s.Notifications.Put(context.Background(), &models.Notification{ID: "n1"}); err == nil {
		t.Error("Put() accepted a notification without a user id")
	}
}
