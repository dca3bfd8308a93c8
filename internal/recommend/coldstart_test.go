// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/clwheeler/pathwise/internal/models"
)

func coldStartInventory() []models.LearningItem {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]models.LearningItem, 0, 20)

	for i := 0; i < 6; i++ {
		items = append(items, models.LearningItem{
			ID:         fmt.Sprintf("beg-%d", i),
			Difficulty: models.DifficultyBeginner,
			Rating:     4.0 - float64(i)*0.1,
			CreatedAt:  base,
		})
	}
	for i := 0; i < 7; i++ {
		items = append(items, models.LearningItem{
			ID:         fmt.Sprintf("adv-%d", i),
			Difficulty: models.DifficultyAdvanced,
			Rating:     5.0 - float64(i)*0.1,
			CreatedAt:  base.AddDate(0, 0, i),
		})
	}
	for i := 0; i < 7; i++ {
		items = append(items, models.LearningItem{
			ID:         fmt.Sprintf("new-%d", i),
			Difficulty: models.DifficultyIntermediate,
			Rating:     2.0,
			CreatedAt:  base.AddDate(0, 1, i),
		})
	}
	return items
}

func TestColdStartBlendProportions(t *testing.T) {
	e := newTestEngine(coldStartInventory(), nil, nil)

	got, err := e.ColdStart(context.Background(), 12)
	if err != nil {
		t.Fatalf("ColdStart() error = %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("got %d results, want 12", len(got))
	}

	counts := map[string]int{}
	seen := map[string]bool{}
	for _, rec := range got {
		if seen[rec.Item.ID] {
			t.Errorf("duplicate item %s", rec.Item.ID)
		}
		seen[rec.Item.ID] = true
		counts[rec.Reason]++
		if rec.Strategy != StrategyColdStart {
			t.Errorf("strategy = %q, want %q", rec.Strategy, StrategyColdStart)
		}
	}

	if counts["Great for beginners"] != 4 {
		t.Errorf("beginner pool = %d, want 4", counts["Great for beginners"])
	}
	if counts["Highly rated by learners"] != 4 {
		t.Errorf("top-rated pool = %d, want 4", counts["Highly rated by learners"])
	}
	if counts["Trending content"] != 4 {
		t.Errorf("recent pool = %d, want 4", counts["Trending content"])
	}

	// Pool weights are display scores only.
	if got[0].Score != 5.0 || got[11].Score != 3.0 {
		t.Errorf("scores = %v..%v, want 5.0..3.0", got[0].Score, got[11].Score)
	}
}

func TestColdStartPoolOrdering(t *testing.T) {
	e := newTestEngine(coldStartInventory(), nil, nil)

	got, err := e.ColdStart(context.Background(), 12)
	if err != nil {
		t.Fatalf("ColdStart() error = %v", err)
	}

	// Beginner pool sorts by rating descending.
	if got[0].Item.ID != "beg-0" {
		t.Errorf("first beginner = %s, want beg-0", got[0].Item.ID)
	}
	// Top-rated pool takes the best remaining ratings (advanced items).
	if got[4].Item.ID != "adv-0" {
		t.Errorf("first top-rated = %s, want adv-0", got[4].Item.ID)
	}
	// Recent pool sorts by creation time descending.
	if got[8].Item.ID != "new-6" {
		t.Errorf("first recent = %s, want new-6", got[8].Item.ID)
	}
}

func TestColdStartShortfallNotRedistributed(t *testing.T) {
	// Only one beginner item exists: its pool contributes 1 instead of 4
	// and the other pools do not absorb the difference. The blend comes
	// up short on purpose.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []models.LearningItem{
		{ID: "beg-only", Difficulty: models.DifficultyBeginner, Rating: 4, CreatedAt: base},
	}
	for i := 0; i < 20; i++ {
		items = append(items, models.LearningItem{
			ID:         fmt.Sprintf("other-%d", i),
			Difficulty: models.DifficultyAdvanced,
			Rating:     3.5,
			CreatedAt:  base.AddDate(0, 0, i),
		})
	}

	e := newTestEngine(items, nil, nil)
	got, err := e.ColdStart(context.Background(), 12)
	if err != nil {
		t.Fatalf("ColdStart() error = %v", err)
	}

	counts := map[string]int{}
	for _, rec := range got {
		counts[rec.Reason]++
	}
	if counts["Great for beginners"] != 1 {
		t.Errorf("beginner pool = %d, want 1", counts["Great for beginners"])
	}
	if counts["Highly rated by learners"] != 4 || counts["Trending content"] != 4 {
		t.Errorf("pools = %v, shortfall must not be redistributed", counts)
	}
	if len(got) != 9 {
		t.Errorf("total = %d, want 9 (12 minus the 3-item shortfall)", len(got))
	}
}

func TestRecommendUsesColdStartWithoutInterests(t *testing.T) {
	users := map[string]models.UserProfile{
		"newbie": {ID: "newbie"},
	}
	e := newTestEngine(coldStartInventory(), users, nil)

	got, err := e.Recommend(context.Background(), "newbie", 6, Filters{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("cold start returned nothing")
	}
	for _, rec := range got {
		if rec.Strategy != StrategyColdStart {
			t.Errorf("strategy = %q, want %q", rec.Strategy, StrategyColdStart)
		}
	}
}
