// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package models defines the persistent data model shared by the
// recommendation engine, the document store, and the HTTP layer.
//
// Shape validation happens at the repository and import boundaries, not
// ad hoc at call sites: anything handed to the engine is assumed to
// already satisfy the invariants documented here.
package models

import (
	"fmt"
	"time"
)

// EmbeddingDim is the fixed dimension of item embeddings
// (all-MiniLM-L6-v2 output). An item either has no embedding or exactly
// this many components; anything else is rejected at the boundary.
const EmbeddingDim = 384

// ItemKind classifies learning content.
type ItemKind string

// Known item kinds. Tasks carry the Easy/Medium/Hard difficulty
// vocabulary at the API boundary; everything else uses
// Beginner/Intermediate/Advanced.
const (
	KindCourse   ItemKind = "course"
	KindArticle  ItemKind = "article"
	KindVideo    ItemKind = "video"
	KindBook     ItemKind = "book"
	KindTutorial ItemKind = "tutorial"
	KindTask     ItemKind = "task"
)

// LearningItem is a single piece of recommendable content.
type LearningItem struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Kind        ItemKind `json:"type" validate:"required,oneof=course article video book tutorial task"`

	// Categorization
	Tags       []string   `json:"tags"`
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty"`

	// Content metadata
	Duration string `json:"duration,omitempty"`
	URL      string `json:"url,omitempty"`
	Author   string `json:"author,omitempty"`
	Source   string `json:"source,omitempty"`
	Language string `json:"language,omitempty"`

	// Engagement metrics
	Likes       int     `json:"likes"`
	Views       int     `json:"views"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	RatingCount int     `json:"rating_count"`

	// Active items are eligible for recommendation; imports may stage
	// inactive rows.
	Active bool `json:"is_active"`

	// Embedding is the semantic vector for similarity search, or nil if
	// the item has not been indexed yet.
	Embedding []float32 `json:"embedding,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HasEmbedding reports whether the item carries a well-formed embedding.
// A wrong-dimension vector counts as absent; the caller logs and skips it.
func (it *LearningItem) HasEmbedding() bool {
	return len(it.Embedding) == EmbeddingDim
}

// ValidateEmbedding enforces the all-or-nothing embedding invariant.
func (it *LearningItem) ValidateEmbedding() error {
	if it.Embedding == nil || len(it.Embedding) == EmbeddingDim {
		return nil
	}
	return fmt.Errorf("item %s: embedding has %d components, want %d", it.ID, len(it.Embedding), EmbeddingDim)
}

// InteractionStatus tracks how far a user has progressed with an item.
type InteractionStatus string

// Known interaction statuses.
const (
	StatusStarted    InteractionStatus = "started"
	StatusInProgress InteractionStatus = "in_progress"
	StatusCompleted  InteractionStatus = "completed"
	StatusBookmarked InteractionStatus = "bookmarked"
)

// Interaction is one user's state for a single item. The interaction
// map on UserProfile is sparse: only items actually touched have keys.
type Interaction struct {
	Status      InteractionStatus `json:"status"`
	StartedAt   time.Time         `json:"started_at,omitempty"`
	CompletedAt time.Time         `json:"completed_at,omitempty"`
	Bookmarked  bool              `json:"bookmarked"`
}

// UserProfile is the read-model the engine consumes. The engine never
// mutates profiles; writes go through the user repository.
type UserProfile struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Name  string `json:"name,omitempty"`

	// PasswordHash is a bcrypt hash; never serialized to API responses.
	PasswordHash []byte `json:"-"`

	Interests  []string   `json:"interests"`
	SkillLevel Difficulty `json:"skill_level"`

	// Interactions maps item ID to the user's state for that item.
	Interactions map[string]Interaction `json:"interactions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HasHistory reports whether the profile carries enough signal for the
// personalized pipeline. Profiles without it get the cold-start blend.
func (p *UserProfile) HasHistory() bool {
	return len(p.Interests) > 0 || len(p.Interactions) > 0
}

// InteractedItemIDs returns the IDs of items the user has touched.
func (p *UserProfile) InteractedItemIDs() []string {
	ids := make([]string, 0, len(p.Interactions))
	for id := range p.Interactions {
		ids = append(ids, id)
	}
	return ids
}

// SharesInterest reports whether the profile shares at least one
// interest tag with other, case-insensitively.
func (p *UserProfile) SharesInterest(other *UserProfile) bool {
	if len(p.Interests) == 0 || len(other.Interests) == 0 {
		return false
	}
	mine := make(map[string]struct{}, len(p.Interests))
	for _, in := range p.Interests {
		mine[lower(in)] = struct{}{}
	}
	for _, in := range other.Interests {
		if _, ok := mine[lower(in)]; ok {
			return true
		}
	}
	return false
}

// FeedbackRecord is one user's feedback on one item or task. The store
// collapses multiple submissions per (user, item) pair to the latest
// write; the engine can therefore treat records as unique per pair.
type FeedbackRecord struct {
	UserID string `json:"user_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`

	Helpful bool `json:"helpful"`

	// DifficultyRating is the user's perceived difficulty (1-5), or 0
	// when not provided.
	DifficultyRating int `json:"difficulty_rating,omitempty" validate:"omitempty,gte=1,lte=5"`

	// Rating is the content quality rating (1-5), or 0 when not provided.
	Rating int `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`

	Comment   string    `json:"comment,omitempty" validate:"max=1000"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredRecommendation is the ephemeral per-request result type. It is
// built fresh for every request and never cached or persisted.
type ScoredRecommendation struct {
	Item LearningItem `json:"item"`

	// Score orders the result list; scales differ per strategy and are
	// not comparable across strategies.
	Score float64 `json:"score"`

	// Reason is the human-readable explanation from the strategy that
	// selected the item.
	Reason string `json:"reason"`

	// Strategy tags which pipeline stage produced the item.
	Strategy string `json:"strategy"`
}
