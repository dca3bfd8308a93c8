// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/clwheeler/pathwise/internal/models"
)

// ErrInvalidRequest reports a request the engine refuses to serve,
// such as a non-positive limit or an empty user ID. It maps to a 400
// at the HTTP layer and is never retried.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// Strategy tags identify which pipeline stage produced a result.
const (
	StrategyContent       = "content"
	StrategyCollaborative = "collaborative"
	StrategySkillLevel    = "skill_level"
	StrategyTrending      = "trending"
	StrategyColdStart     = "cold_start"
	StrategyTaskFeedback  = "task_feedback"
)

// ItemSource supplies recommendable items.
type ItemSource interface {
	// ListActive returns all active items.
	ListActive(ctx context.Context) ([]models.LearningItem, error)
}

// UserSource supplies user profiles.
type UserSource interface {
	// Get returns the profile for id, or an error when it does not exist.
	Get(ctx context.Context, id string) (*models.UserProfile, error)

	// List returns all profiles. Used to assemble peer groups.
	List(ctx context.Context) ([]models.UserProfile, error)
}

// FeedbackSource supplies feedback history.
type FeedbackSource interface {
	// ForUser returns all feedback submitted by one user.
	ForUser(ctx context.Context, userID string) ([]models.FeedbackRecord, error)

	// ForUsers returns all feedback submitted by any of the given users.
	ForUsers(ctx context.Context, userIDs []string) ([]models.FeedbackRecord, error)
}

// Config tunes the engine.
type Config struct {
	// DefaultLimit is the result count used when the client omits one.
	// The HTTP layer substitutes it; the engine itself rejects
	// non-positive limits.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// PeerLimit caps the collaborative filtering peer group.
	PeerLimit int

	// TrendingHorizon excludes items older than this from the trending
	// stage. Zero disables the cutoff.
	TrendingHorizon time.Duration
}

// withDefaults fills zero fields with working values.
func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 50
	}
	if c.PeerLimit <= 0 {
		c.PeerLimit = 50
	}
	return c
}
