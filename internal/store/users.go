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

// storedUser is the persisted user shape. PasswordHash is excluded
// from the profile's JSON form, so it is carried separately here.
type storedUser struct {
	Profile      models.UserProfile `json:"profile"`
	PasswordHash []byte             `json:"password_hash,omitempty"`
}

// UserStore persists user profiles.
type UserStore struct {
	db *badger.DB
}

// Put creates or replaces a profile.
func (s *UserStore) Put(_ context.Context, profile *models.UserProfile) error {
	if profile.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	profile.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(storedUser{Profile: *profile, PasswordHash: profile.PasswordHash})
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", profile.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKeyPrefix+profile.ID), data)
	})
}

// Get returns one profile by ID.
func (s *UserStore) Get(_ context.Context, id string) (*models.UserProfile, error) {
	var stored storedUser
	err := s.db.View(func(txn *badger.Txn) error {
		entry, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get user %s: %w", id, err)
		}
		return entry.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, err
	}
	profile := stored.Profile
	profile.PasswordHash = stored.PasswordHash
	return &profile, nil
}

// GetByEmail scans for a profile with the given email. Login-path
// only; everything else addresses users by ID.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return s.Get(ctx, all[i].ID)
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// List returns every stored profile.
func (s *UserStore) List(ctx context.Context) ([]models.UserProfile, error) {
	var out []models.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var stored storedUser
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return fmt.Errorf("decode user %s: %w", it.Item().Key(), err)
			}
			profile := stored.Profile
			profile.PasswordHash = stored.PasswordHash
			out = append(out, profile)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordInteraction upserts one interaction on a profile.
func (s *UserStore) RecordInteraction(ctx context.Context, userID, itemID string, interaction models.Interaction) error {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if profile.Interactions == nil {
		profile.Interactions = make(map[string]models.Interaction)
	}
	profile.Interactions[itemID] = interaction
	return s.Put(ctx, profile)
}
