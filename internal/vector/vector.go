// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package vector implements cosine similarity and exhaustive top-k
// nearest-neighbor search over item embeddings.
//
// The search is a linear scan. At the catalog sizes this service
// handles (thousands of items, 384 dimensions) a scan outperforms the
// bookkeeping of an approximate index and keeps results exact.
package vector

import (
	"math"
	"sort"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/models"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Mismatched lengths and zero-magnitude vectors return 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp accumulated floating point error.
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

// Match pairs an item with its similarity to a query vector.
type Match struct {
	Item       models.LearningItem
	Similarity float64
}

// Search returns the k items most similar to query, ordered by
// similarity descending. Ties break on rating descending, then likes
// descending, then item ID ascending, so equal inputs always produce
// the same output order.
//
// Items without a well-formed embedding are skipped and logged once
// per call. k <= 0 or an empty candidate set returns an empty slice.
func Search(query []float32, candidates []models.LearningItem, k int) []Match {
	if k <= 0 || len(candidates) == 0 || len(query) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	skipped := 0
	for i := range candidates {
		it := &candidates[i]
		if len(it.Embedding) == 0 {
			continue
		}
		if !it.HasEmbedding() {
			skipped++
			logging.Warn().
				Str("item_id", it.ID).
				Int("dim", len(it.Embedding)).
				Msg("skipping item with malformed embedding")
			continue
		}
		matches = append(matches, Match{Item: *it, Similarity: Cosine(query, it.Embedding)})
	}
	if skipped > 0 {
		logging.Debug().Int("skipped", skipped).Msg("vector search skipped malformed embeddings")
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Item.Rating != b.Item.Rating {
			return a.Item.Rating > b.Item.Rating
		}
		if a.Item.Likes != b.Item.Likes {
			return a.Item.Likes > b.Item.Likes
		}
		return a.Item.ID < b.Item.ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
