// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/clwheeler/pathwise/internal/models"
)

// NotificationStore persists per-user notifications produced by the
// event dispatcher.
type NotificationStore struct {
	db *badger.DB
}

// Put stores one notification.
func (s *NotificationStore) Put(_ context.Context, n *models.Notification) error {
	if n.ID == "" || n.UserID == "" {
		return fmt.Errorf("notification requires id and user id")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(notificationKeyPrefix + n.UserID + ":" + n.ID)
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}
		return nil
	})
}

// ForUser returns one user's notifications, newest first.
func (s *NotificationStore) ForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(notificationKeyPrefix + userID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var n models.Notification
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return fmt.Errorf("decode notification %s: %w", it.Item().Key(), err)
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
