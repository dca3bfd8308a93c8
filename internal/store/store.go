// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package store persists items, user profiles, and feedback in
// BadgerDB. The store owns shape validation at the write boundary:
// whatever comes back out is safe to hand to the engine unchecked.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/clwheeler/pathwise/internal/logging"
)

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("record not found")

// Key prefixes. Feedback is keyed by (user, item) so a resubmission
// overwrites the previous record: latest write wins per pair.
const (
	itemKeyPrefix         = "item:"
	userKeyPrefix         = "user:"
	feedbackKeyPrefix     = "feedback:"
	feedbackItemKeyPrefix = "feedback_item:"
	notificationKeyPrefix = "notification:"
)

// Store bundles the repositories sharing one Badger database.
type Store struct {
	db *badger.DB

	Items         *ItemStore
	Users         *UserStore
	Feedback      *FeedbackStore
	Notifications *NotificationStore
}

// Open opens or creates the database at path. An empty path opens an
// in-memory database, used by tests.
func Open(path string) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	// Badger logs through its own interface; route it to zerolog.
	opts = opts.WithLogger(badgerLogger{logging.WithComponent("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	return &Store{
		db:            db,
		Items:         &ItemStore{db: db},
		Users:         &UserStore{db: db},
		Feedback:      &FeedbackStore{db: db},
		Notifications: &NotificationStore{db: db},
	}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs one value-log garbage collection pass. Call periodically;
// badger.ErrNoRewrite means there was nothing to collect.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}
