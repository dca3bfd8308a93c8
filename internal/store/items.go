// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/clwheeler/pathwise/internal/models"
)

// ItemStore persists learning items.
type ItemStore struct {
	db *badger.DB
}

// Put creates or replaces an item. The embedding invariant is enforced
// here so readers never see a partially-populated vector.
func (s *ItemStore) Put(_ context.Context, item *models.LearningItem) error {
	if item.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if err := item.ValidateEmbedding(); err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", item.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(itemKeyPrefix+item.ID), data)
	})
}

// Get returns one item by ID.
func (s *ItemStore) Get(_ context.Context, id string) (*models.LearningItem, error) {
	var item models.LearningItem
	err := s.db.View(func(txn *badger.Txn) error {
		entry, err := txn.Get([]byte(itemKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("item %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get item %s: %w", id, err)
		}
		return entry.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns every stored item.
func (s *ItemStore) List(ctx context.Context) ([]models.LearningItem, error) {
	return s.scan(ctx, func(*models.LearningItem) bool { return true })
}

// ListActive returns items eligible for recommendation.
func (s *ItemStore) ListActive(ctx context.Context) ([]models.LearningItem, error) {
	return s.scan(ctx, func(it *models.LearningItem) bool { return it.Active })
}

// ListWithoutEmbeddings returns up to limit active items awaiting
// indexing. The background indexer drains this.
func (s *ItemStore) ListWithoutEmbeddings(ctx context.Context, limit int) ([]models.LearningItem, error) {
	out, err := s.scan(ctx, func(it *models.LearningItem) bool {
		return it.Active && len(it.Embedding) == 0
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (s *ItemStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(itemKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *ItemStore) scan(ctx context.Context, keep func(*models.LearningItem) bool) ([]models.LearningItem, error) {
	var out []models.LearningItem
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var item models.LearningItem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode item %s: %w", it.Item().Key(), err)
			}
			if keep(&item) {
				out = append(out, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
