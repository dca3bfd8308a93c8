// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package reranking orders micro-task candidates using the user's own
// feedback history: semantic similarity to the interest profile, a
// boost toward tasks resembling previously-helpful ones, and
// difficulty calibration from perceived-difficulty ratings.
package reranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/embedding"
	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/recommend"
	"github.com/clwheeler/pathwise/internal/vector"
)

// helpfulBoostWeight scales the similarity to each previously-helpful
// task added to a candidate's score.
const helpfulBoostWeight = 0.3

// skillMatchBonus is added when a task's difficulty matches the
// user's skill level.
const skillMatchBonus = 0.1

// Service produces personalized task recommendations.
type Service struct {
	embed    embedding.Embedder
	items    recommend.ItemSource
	users    recommend.UserSource
	feedback recommend.FeedbackSource
	cfg      recommend.Config
	log      zerolog.Logger
}

// New builds a task recommendation service.
func New(embed embedding.Embedder, items recommend.ItemSource, users recommend.UserSource, feedback recommend.FeedbackSource, cfg recommend.Config) *Service {
	return &Service{
		embed:    embed,
		items:    items,
		users:    users,
		feedback: feedback,
		cfg:      cfg,
		log:      logging.WithComponent("reranking"),
	}
}

// TaskRecommendations returns up to limit tasks for the user, scored by
//
//	cosine(interest query, task)
//	+ 0.3 * cosine(task, helpful history task), summed over history
//	+ 0.1 when the task matches the user's skill level
//
// Tasks the user has already submitted feedback for, or completed, are
// never returned. Difficulty calibration narrows the candidate pool
// before scoring; it does not adjust scores.
func (s *Service) TaskRecommendations(ctx context.Context, userID string, limit int) ([]models.ScoredRecommendation, error) {
	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: empty user id", recommend.ErrInvalidRequest)
	case limit <= 0:
		return nil, fmt.Errorf("%w: limit %d", recommend.ErrInvalidRequest, limit)
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	profile, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	history, err := s.feedback.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load feedback history: %w", err)
	}
	all, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	byID := make(map[string]*models.LearningItem, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	candidates := s.candidateTasks(profile, history, all)
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVecs, err := s.embed.Embed(ctx, []string{embedding.InterestText(profile.Interests)})
	if err != nil {
		return nil, fmt.Errorf("embed interest query: %w", err)
	}
	query := queryVecs[0]

	helpfulVecs := s.helpfulEmbeddings(history, byID)

	type scored struct {
		item  models.LearningItem
		score float64
	}
	results := make([]scored, 0, len(candidates))
	for i := range candidates {
		t := &candidates[i]
		if !t.HasEmbedding() {
			if len(t.Embedding) > 0 {
				s.log.Warn().Str("item_id", t.ID).Int("dim", len(t.Embedding)).
					Msg("skipping task with malformed embedding")
			}
			continue
		}

		score := vector.Cosine(query, t.Embedding)
		for _, h := range helpfulVecs {
			score += helpfulBoostWeight * vector.Cosine(t.Embedding, h)
		}
		if t.Difficulty.Valid() && t.Difficulty == profile.SkillLevel {
			score += skillMatchBonus
		}
		results = append(results, scored{item: *t, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.item.Rating != b.item.Rating {
			return a.item.Rating > b.item.Rating
		}
		if a.item.Likes != b.item.Likes {
			return a.item.Likes > b.item.Likes
		}
		return a.item.ID < b.item.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]models.ScoredRecommendation, len(results))
	for i, r := range results {
		out[i] = models.ScoredRecommendation{
			Item:     r.item,
			Score:    r.score,
			Reason:   fmt.Sprintf("Recommended based on your interests and learning patterns (score: %.2f)", r.score),
			Strategy: recommend.StrategyTaskFeedback,
		}
	}
	return out, nil
}

// candidateTasks selects active tasks in the calibrated difficulty
// tiers, excluding anything the user has given feedback on or completed.
func (s *Service) candidateTasks(profile *models.UserProfile, history []models.FeedbackRecord, all []models.LearningItem) []models.LearningItem {
	rated := make(map[string]struct{}, len(history))
	for i := range history {
		rated[history[i].ItemID] = struct{}{}
	}

	tiers := TargetTiers(profile.SkillLevel, history)
	inTier := make(map[models.Difficulty]struct{}, len(tiers))
	for _, d := range tiers {
		inTier[d] = struct{}{}
	}

	out := make([]models.LearningItem, 0, len(all))
	for i := range all {
		it := &all[i]
		if it.Kind != models.KindTask {
			continue
		}
		if _, done := rated[it.ID]; done {
			continue
		}
		if inter, ok := profile.Interactions[it.ID]; ok && inter.Status == models.StatusCompleted {
			continue
		}
		if len(inTier) > 0 {
			if _, ok := inTier[it.Difficulty]; !ok {
				continue
			}
		}
		out = append(out, *it)
	}
	return out
}

// helpfulEmbeddings collects embeddings of tasks the user marked helpful.
func (s *Service) helpfulEmbeddings(history []models.FeedbackRecord, byID map[string]*models.LearningItem) [][]float32 {
	var vecs [][]float32
	for i := range history {
		r := &history[i]
		if !r.Helpful {
			continue
		}
		it, ok := byID[r.ItemID]
		if !ok || !it.HasEmbedding() {
			continue
		}
		vecs = append(vecs, it.Embedding)
	}
	return vecs
}
