// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package reranking

import "github.com/clwheeler/pathwise/internal/models"

// Calibration thresholds over the mean of the user's 1-5 perceived
// difficulty ratings.
const (
	// tooEasyMean and below means the user breezes through their tasks;
	// steer them toward harder tiers.
	tooEasyMean = 2.5

	// tooHardMean and above means tasks overwhelm the user; drop to the
	// easiest tier.
	tooHardMean = 4.0
)

// TargetTiers returns the difficulty tiers tasks should be drawn from
// for a user at the given skill level, adjusted by their perceived
// difficulty history. Users without difficulty ratings stay at their
// skill tier. An unknown skill level leaves the pool unrestricted.
func TargetTiers(skill models.Difficulty, history []models.FeedbackRecord) []models.Difficulty {
	mean, ok := meanDifficultyRating(history)
	if ok {
		switch {
		case mean <= tooEasyMean:
			return harderThan(skill)
		case mean >= tooHardMean:
			return []models.Difficulty{models.DifficultyBeginner}
		}
	}

	if !skill.Valid() {
		return nil
	}
	return []models.Difficulty{skill}
}

// meanDifficultyRating averages the present difficulty ratings.
// The second return is false when no record carries one.
func meanDifficultyRating(history []models.FeedbackRecord) (float64, bool) {
	var sum, n int
	for i := range history {
		if r := history[i].DifficultyRating; r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// harderThan returns the tiers above skill. A user already at the top
// tier stays there.
func harderThan(skill models.Difficulty) []models.Difficulty {
	switch skill {
	case models.DifficultyBeginner:
		return []models.Difficulty{models.DifficultyIntermediate, models.DifficultyAdvanced}
	case models.DifficultyIntermediate:
		return []models.Difficulty{models.DifficultyAdvanced}
	case models.DifficultyAdvanced:
		return []models.Difficulty{models.DifficultyAdvanced}
	default:
		return nil
	}
}
