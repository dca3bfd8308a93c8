// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/clwheeler/pathwise/internal/models"
)

// FeedbackStore persists feedback records. The primary key is
// (user, item): submitting feedback twice for the same item replaces
// the earlier record.
type FeedbackStore struct {
	db *badger.DB
}

// Put stores one feedback record, replacing any earlier record for the
// same (user, item) pair.
func (s *FeedbackStore) Put(_ context.Context, record *models.FeedbackRecord) error {
	if record.UserID == "" || record.ItemID == "" {
		return fmt.Errorf("feedback requires user id and item id")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(feedbackKeyPrefix + record.UserID + ":" + record.ItemID)
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set feedback: %w", err)
		}
		// Secondary index for per-item lookups.
		itemKey := []byte(feedbackItemKeyPrefix + record.ItemID + ":" + record.UserID)
		if err := txn.Set(itemKey, data); err != nil {
			return fmt.Errorf("set feedback item index: %w", err)
		}
		return nil
	})
}

// ForUser returns all feedback one user has submitted.
func (s *FeedbackStore) ForUser(ctx context.Context, userID string) ([]models.FeedbackRecord, error) {
	return s.scanPrefix(ctx, feedbackKeyPrefix+userID+":")
}

// ForItem returns all feedback submitted for one item.
func (s *FeedbackStore) ForItem(ctx context.Context, itemID string) ([]models.FeedbackRecord, error) {
	return s.scanPrefix(ctx, feedbackItemKeyPrefix+itemID+":")
}

// ForUsers returns all feedback submitted by any of the given users.
func (s *FeedbackStore) ForUsers(ctx context.Context, userIDs []string) ([]models.FeedbackRecord, error) {
	var out []models.FeedbackRecord
	for _, id := range userIDs {
		records, err := s.ForUser(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (s *FeedbackStore) scanPrefix(ctx context.Context, prefix string) ([]models.FeedbackRecord, error) {
	var out []models.FeedbackRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record models.FeedbackRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("decode feedback %s: %w", it.Item().Key(), err)
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
