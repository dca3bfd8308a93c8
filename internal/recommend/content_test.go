// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"strings"
	"testing"

	"github.com/clwheeler/pathwise/internal/models"
)

func TestScoreContent(t *testing.T) {
	profile := &models.UserProfile{
		ID:         "u1",
		Interests:  []string{"python", "ml"},
		SkillLevel: models.DifficultyBeginner,
	}

	tests := []struct {
		name       string
		item       models.LearningItem
		wantScore  float64
		wantReason string
	}{
		{
			name: "tag and skill and rating",
			item: models.LearningItem{
				Tags:       []string{"python", "basics"},
				Difficulty: models.DifficultyBeginner,
				Rating:     4.5,
			},
			wantScore:  2 + 3 + 4.5,
			wantReason: "Matches 1 of your interests",
		},
		{
			name: "two tag overlap",
			item: models.LearningItem{
				Tags: []string{"Python", "ML"},
			},
			wantScore:  4,
			wantReason: "Matches 2 of your interests",
		},
		{
			name: "likes capped at two",
			item: models.LearningItem{
				Likes: 1000,
			},
			wantScore:  2,
			wantReason: "Popular content",
		},
		{
			name:      "nothing fires",
			item:      models.LearningItem{Tags: []string{"java"}},
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := ScoreContent(&tt.item, profile)
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if tt.wantReason != "" && !strings.Contains(joinReasons(reasons), tt.wantReason) {
				t.Errorf("reasons = %v, want one containing %q", reasons, tt.wantReason)
			}
			if tt.wantScore == 0 && len(reasons) != 0 {
				t.Errorf("zero score must carry no reasons, got %v", reasons)
			}
		})
	}
}

func TestScoreContentMonotoneInOverlap(t *testing.T) {
	profile := &models.UserProfile{
		Interests: []string{"go", "rust", "zig", "c"},
	}

	prev := -1.0
	for n := 0; n <= 4; n++ {
		item := models.LearningItem{Tags: profile.Interests[:n], Rating: 3}
		score, _ := ScoreContent(&item, profile)
		if score <= prev {
			t.Errorf("overlap %d: score %v not greater than %v", n, score, prev)
		}
		prev = score
	}
}

func TestMatchesAnyInterest(t *testing.T) {
	interests := []string{"Databases", "go"}

	tests := []struct {
		name string
		item models.LearningItem
		want bool
	}{
		{name: "tag match", item: models.LearningItem{Tags: []string{"GO"}}, want: true},
		{name: "category match", item: models.LearningItem{Category: "databases"}, want: true},
		{name: "no match", item: models.LearningItem{Tags: []string{"java"}, Category: "web"}, want: false},
		{name: "empty item", item: models.LearningItem{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesAnyInterest(&tt.item, interests); got != tt.want {
				t.Errorf("matchesAnyInterest() = %v, want %v", got, tt.want)
			}
		})
	}
}
