// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"fmt"
	"strings"

	"github.com/clwheeler/pathwise/internal/models"
)

// ScoreContent computes the rule-based content score of an item for a
// profile, with the reasons that fired. The score is additive:
//
//	+2 per tag shared with the user's interests
//	+3 when difficulty matches the user's skill level
//	+rating (0-5)
//	+likes/10, capped at 2
//
// A zero score means the item has nothing going for it and callers
// exclude it. A positive score with no tag or skill match gets the
// generic "Popular content" reason.
func ScoreContent(item *models.LearningItem, profile *models.UserProfile) (float64, []string) {
	var score float64
	var reasons []string

	if overlap := tagOverlap(item.Tags, profile.Interests); overlap > 0 {
		score += 2 * float64(overlap)
		reasons = append(reasons, fmt.Sprintf("Matches %d of your interests", overlap))
	}

	if item.Difficulty.Valid() && item.Difficulty == profile.SkillLevel {
		score += 3
		reasons = append(reasons, "Matches your skill level")
	}

	score += item.Rating

	popularity := float64(item.Likes) / 10
	if popularity > 2 {
		popularity = 2
	}
	score += popularity

	if score > 0 && len(reasons) == 0 {
		reasons = append(reasons, "Popular content")
	}
	return score, reasons
}

// tagOverlap counts case-insensitive matches between tags and interests.
func tagOverlap(tags, interests []string) int {
	if len(tags) == 0 || len(interests) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(interests))
	for _, in := range interests {
		want[strings.ToLower(in)] = struct{}{}
	}
	count := 0
	for _, tag := range tags {
		if _, ok := want[strings.ToLower(tag)]; ok {
			count++
		}
	}
	return count
}

// matchesAnyInterest reports whether the item shares at least one tag
// with the interests, or its category matches one.
func matchesAnyInterest(item *models.LearningItem, interests []string) bool {
	if tagOverlap(item.Tags, interests) > 0 {
		return true
	}
	if item.Category == "" {
		return false
	}
	cat := strings.ToLower(item.Category)
	for _, in := range interests {
		if strings.ToLower(in) == cat {
			return true
		}
	}
	return false
}

// joinReasons renders a reason list as a single display string.
func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
