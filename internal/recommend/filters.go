// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"strings"

	"github.com/clwheeler/pathwise/internal/models"
)

// Filters narrows the candidate pool before any pipeline stage runs.
// Each populated dimension must match; empty dimensions match
// everything, so the zero value is a no-op.
type Filters struct {
	// Kinds keeps only items of these kinds.
	Kinds []models.ItemKind

	// Difficulties keeps only items at these levels.
	Difficulties []models.Difficulty

	// Topics keeps items whose tags or category match any entry,
	// case-insensitively.
	Topics []string
}

func (f *Filters) active() bool {
	return len(f.Kinds) > 0 || len(f.Difficulties) > 0 || len(f.Topics) > 0
}

// Match reports whether the item passes every populated dimension.
func (f *Filters) Match(it *models.LearningItem) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if strings.EqualFold(string(k), string(it.Kind)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Difficulties) > 0 {
		found := false
		for _, d := range f.Difficulties {
			if d == it.Difficulty {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Topics) > 0 && !matchesAnyInterest(it, f.Topics) {
		return false
	}
	return true
}

// Apply returns the items passing the filter. The input slice is
// returned as-is when no dimension is populated.
func (f *Filters) Apply(items []models.LearningItem) []models.LearningItem {
	if !f.active() {
		return items
	}
	return filterItems(items, f.Match)
}
