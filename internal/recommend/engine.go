// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/models"
)

// Engine runs the recommendation pipeline. Construct once with its
// dependencies and share across requests; it holds no per-request state.
type Engine struct {
	items    ItemSource
	users    UserSource
	feedback FeedbackSource
	cfg      Config
	log      zerolog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New builds an Engine.
func New(items ItemSource, users UserSource, feedback FeedbackSource, cfg Config) *Engine {
	return &Engine{
		items:    items,
		users:    users,
		feedback: feedback,
		cfg:      cfg.withDefaults(),
		log:      logging.WithComponent("recommend"),
		now:      time.Now,
	}
}

// Recommend produces up to limit recommendations for the user,
// restricted to items passing filters. Users without interests or
// interaction history receive the cold-start blend. A cancelled
// context returns whatever the finished stages accumulated rather
// than an error; partial results beat none.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int, filters Filters) ([]models.ScoredRecommendation, error) {
	limit, err := e.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}

	profile, err := e.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	if !profile.HasHistory() {
		return e.coldStart(ctx, limit, filters)
	}

	candidates, err := e.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate items: %w", err)
	}
	candidates = filters.Apply(candidates)

	acc := newAccumulator(limit)
	for _, id := range profile.InteractedItemIDs() {
		acc.exclude(id)
	}

	type stage struct {
		name string
		run  func(context.Context, *models.UserProfile, []models.LearningItem, *accumulator) error
	}
	stages := []stage{
		{name: StrategyContent, run: e.stageInterests},
		{name: StrategyCollaborative, run: e.stageCollaborative},
		{name: StrategySkillLevel, run: e.stageSkillLevel},
		{name: StrategyTrending, run: e.stageTrending},
	}

	for _, s := range stages {
		if acc.full() {
			break
		}
		if ctx.Err() != nil {
			e.log.Debug().
				Str("user_id", userID).
				Str("stage", s.name).
				Int("accumulated", len(acc.results)).
				Msg("request cancelled, returning partial results")
			return acc.results, nil
		}
		if err := s.run(ctx, profile, candidates, acc); err != nil {
			// A failed stage is skipped, not fatal.
			e.log.Warn().Err(err).Str("stage", s.name).Msg("recommendation stage failed")
		}
	}
	return acc.results, nil
}

// DefaultLimit is the result count callers should request when the
// client did not ask for a specific one.
func (e *Engine) DefaultLimit() int {
	return e.cfg.DefaultLimit
}

// clampLimit validates and bounds the requested result count. Zero and
// negative limits are invalid; callers that want the default pass
// DefaultLimit explicitly.
func (e *Engine) clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("%w: limit %d", ErrInvalidRequest, limit)
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit, nil
	}
	return limit, nil
}

// accumulator carries the running result list and its dedup set.
type accumulator struct {
	limit   int
	results []models.ScoredRecommendation
	seen    map[string]struct{}
}

func newAccumulator(limit int) *accumulator {
	return &accumulator{
		limit:   limit,
		results: make([]models.ScoredRecommendation, 0, limit),
		seen:    make(map[string]struct{}),
	}
}

// exclude marks an item id as unusable without adding a result.
func (a *accumulator) exclude(id string) {
	a.seen[id] = struct{}{}
}

// add appends rec unless the item was already taken or the limit is hit.
func (a *accumulator) add(rec models.ScoredRecommendation) bool {
	if a.full() {
		return false
	}
	if _, dup := a.seen[rec.Item.ID]; dup {
		return false
	}
	a.seen[rec.Item.ID] = struct{}{}
	a.results = append(a.results, rec)
	return true
}

func (a *accumulator) full() bool {
	return len(a.results) >= a.limit
}

// stageInterests scores items sharing at least one tag or category
// with the user's interests.
func (e *Engine) stageInterests(_ context.Context, profile *models.UserProfile, candidates []models.LearningItem, acc *accumulator) error {
	type scored struct {
		item    models.LearningItem
		score   float64
		reasons []string
	}

	matches := make([]scored, 0, len(candidates))
	for i := range candidates {
		it := &candidates[i]
		if _, taken := acc.seen[it.ID]; taken {
			continue
		}
		if !matchesAnyInterest(it, profile.Interests) {
			continue
		}
		score, reasons := ScoreContent(it, profile)
		if score <= 0 {
			continue
		}
		matches = append(matches, scored{item: *it, score: score, reasons: reasons})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		return lessByEngagement(&a.item, &b.item)
	})

	for i := range matches {
		if acc.full() {
			break
		}
		reason := joinReasons(matches[i].reasons)
		if reason == "" {
			reason = "Matches your interests"
		}
		acc.add(models.ScoredRecommendation{
			Item:     matches[i].item,
			Score:    matches[i].score,
			Reason:   reason,
			Strategy: StrategyContent,
		})
	}
	return nil
}

// stageCollaborative fills from peer-endorsed items.
func (e *Engine) stageCollaborative(ctx context.Context, profile *models.UserProfile, candidates []models.LearningItem, acc *accumulator) error {
	endorsed, err := e.collaborative(ctx, profile)
	if err != nil {
		return err
	}
	if len(endorsed) == 0 {
		return nil
	}

	byID := make(map[string]*models.LearningItem, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	for _, en := range endorsed {
		if acc.full() {
			break
		}
		it, ok := byID[en.itemID]
		if !ok {
			continue
		}
		acc.add(models.ScoredRecommendation{
			Item:     *it,
			Score:    float64(en.count),
			Reason:   "Users with similar interests liked this",
			Strategy: StrategyCollaborative,
		})
	}
	return nil
}

// stageSkillLevel fills from highly rated items at the user's level.
func (e *Engine) stageSkillLevel(_ context.Context, profile *models.UserProfile, candidates []models.LearningItem, acc *accumulator) error {
	if !profile.SkillLevel.Valid() {
		return nil
	}

	matches := make([]models.LearningItem, 0, len(candidates))
	for i := range candidates {
		it := &candidates[i]
		if _, taken := acc.seen[it.ID]; taken {
			continue
		}
		if it.Difficulty == profile.SkillLevel {
			matches = append(matches, *it)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return lessByEngagement(&matches[i], &matches[j])
	})

	for i := range matches {
		if acc.full() {
			break
		}
		acc.add(models.ScoredRecommendation{
			Item:     matches[i],
			Score:    matches[i].Rating,
			Reason:   "Popular with learners at your level",
			Strategy: StrategySkillLevel,
		})
	}
	return nil
}

// stageTrending fills the remaining deficit from the global catalog,
// ordered by rating, likes, then recency. Items older than the
// configured horizon are considered stale for this stage only.
func (e *Engine) stageTrending(_ context.Context, _ *models.UserProfile, candidates []models.LearningItem, acc *accumulator) error {
	var cutoff time.Time
	if e.cfg.TrendingHorizon > 0 {
		cutoff = e.now().Add(-e.cfg.TrendingHorizon)
	}

	matches := make([]models.LearningItem, 0, len(candidates))
	for i := range candidates {
		it := &candidates[i]
		if _, taken := acc.seen[it.ID]; taken {
			continue
		}
		if !cutoff.IsZero() && it.CreatedAt.Before(cutoff) {
			continue
		}
		matches = append(matches, *it)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.Likes != b.Likes {
			return a.Likes > b.Likes
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	for i := range matches {
		if acc.full() {
			break
		}
		acc.add(models.ScoredRecommendation{
			Item:     matches[i],
			Score:    matches[i].Rating,
			Reason:   "Highly rated content",
			Strategy: StrategyTrending,
		})
	}
	return nil
}

// lessByEngagement orders items by rating desc, likes desc, ID asc.
func lessByEngagement(a, b *models.LearningItem) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Likes != b.Likes {
		return a.Likes > b.Likes
	}
	return a.ID < b.ID
}
