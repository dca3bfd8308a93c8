// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/clwheeler/pathwise/internal/models"
)

// Fixed display weights per cold-start pool. They order the blended
// list for presentation and never feed into further scoring.
const (
	coldStartBeginnerScore = 5.0
	coldStartTopRatedScore = 4.0
	coldStartRecentScore   = 3.0
)

// ColdStart produces the blend for users without history: a third
// beginner-friendly items, a third top-rated items, and the remainder
// recent items. When a pool is smaller than its share the shortfall is
// not redistributed to the other pools; the blend simply comes up
// short. That behavior is intentional and pinned by tests.
func (e *Engine) ColdStart(ctx context.Context, limit int) ([]models.ScoredRecommendation, error) {
	limit, err := e.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	return e.coldStart(ctx, limit, Filters{})
}

func (e *Engine) coldStart(ctx context.Context, limit int, filters Filters) ([]models.ScoredRecommendation, error) {
	candidates, err := e.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cold start items: %w", err)
	}
	candidates = filters.Apply(candidates)

	acc := newAccumulator(limit)
	third := limit / 3

	// Pool 1: beginner-friendly.
	beginner := filterItems(candidates, func(it *models.LearningItem) bool {
		return it.Difficulty == models.DifficultyBeginner
	})
	sort.Slice(beginner, func(i, j int) bool { return lessByEngagement(&beginner[i], &beginner[j]) })
	takePool(acc, beginner, third, coldStartBeginnerScore, "Great for beginners")

	// Pool 2: top rated overall.
	topRated := filterItems(candidates, func(it *models.LearningItem) bool {
		_, taken := acc.seen[it.ID]
		return !taken
	})
	sort.Slice(topRated, func(i, j int) bool { return lessByEngagement(&topRated[i], &topRated[j]) })
	takePool(acc, topRated, third, coldStartTopRatedScore, "Highly rated by learners")

	// Pool 3: recent additions fill the remainder of the limit.
	recent := filterItems(candidates, func(it *models.LearningItem) bool {
		_, taken := acc.seen[it.ID]
		return !taken
	})
	sort.Slice(recent, func(i, j int) bool {
		a, b := &recent[i], &recent[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Likes != b.Likes {
			return a.Likes > b.Likes
		}
		return a.ID < b.ID
	})
	takePool(acc, recent, limit-2*third, coldStartRecentScore, "Trending content")

	return acc.results, nil
}

// takePool moves up to n items from pool into the accumulator.
func takePool(acc *accumulator, pool []models.LearningItem, n int, score float64, reason string) {
	taken := 0
	for i := range pool {
		if taken >= n {
			break
		}
		if acc.add(models.ScoredRecommendation{
			Item:     pool[i],
			Score:    score,
			Reason:   reason,
			Strategy: StrategyColdStart,
		}) {
			taken++
		}
	}
}

func filterItems(items []models.LearningItem, keep func(*models.LearningItem) bool) []models.LearningItem {
	out := make([]models.LearningItem, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
