// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clwheeler/pathwise/internal/models"
)

// Keyword term weights. Title hits count most, category is a flat
// bonus independent of term count.
const (
	titleWeight       = 3
	descriptionWeight = 2
	tagWeight         = 2
	categoryBonus     = 2
)

// Keyword ranks items by weighted token matches against title,
// description, tags, and category. Items with no match are excluded.
// Deterministic for identical inputs.
func Keyword(query string, items []models.LearningItem, limit int) []models.ScoredRecommendation {
	terms := queryTerms(query)
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		item    models.LearningItem
		score   int
		reasons []string
	}
	matches := make([]scored, 0, len(items))
	for i := range items {
		it := &items[i]
		score, reasons := scoreKeyword(it, terms)
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
		if a.item.Rating != b.item.Rating {
			return a.item.Rating > b.item.Rating
		}
		return a.item.ID < b.item.ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]models.ScoredRecommendation, len(matches))
	for i, m := range matches {
		out[i] = models.ScoredRecommendation{
			Item:     m.item,
			Score:    float64(m.score),
			Reason:   strings.Join(m.reasons, "; "),
			Strategy: StrategyKeyword,
		}
	}
	return out
}

// scoreKeyword counts weighted term hits for one item.
func scoreKeyword(it *models.LearningItem, terms []string) (int, []string) {
	title := strings.ToLower(it.Title)
	desc := strings.ToLower(it.Description)
	category := strings.ToLower(it.Category)
	tags := make([]string, len(it.Tags))
	for i, tag := range it.Tags {
		tags[i] = strings.ToLower(tag)
	}

	var titleHits, descHits, tagHits int
	categoryHit := false
	for _, term := range terms {
		if strings.Contains(title, term) {
			titleHits++
		}
		if strings.Contains(desc, term) {
			descHits++
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				tagHits++
			}
		}
		if category != "" && strings.Contains(category, term) {
			categoryHit = true
		}
	}

	score := titleHits*titleWeight + descHits*descriptionWeight + tagHits*tagWeight
	var reasons []string
	if titleHits > 0 {
		reasons = append(reasons, fmt.Sprintf("Title matches: %d", titleHits))
	}
	if descHits > 0 {
		reasons = append(reasons, fmt.Sprintf("Description matches: %d", descHits))
	}
	if tagHits > 0 {
		reasons = append(reasons, fmt.Sprintf("Tag matches: %d", tagHits))
	}
	if categoryHit {
		score += categoryBonus
		reasons = append(reasons, "Category match")
	}
	return score, reasons
}

// queryTerms lowercases and splits the query into unique terms.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
