// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package search finds catalog items for a free-text query. Semantic
// search over embeddings is the primary path; keyword matching takes
// over whenever the embedding backend is unavailable, so a query never
// hard-fails because a model is down.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/embedding"
	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/recommend"
	"github.com/clwheeler/pathwise/internal/vector"
)

// Strategy tags on search results.
const (
	StrategySemantic = "semantic"
	StrategyKeyword  = "keyword"
)

// Service answers search queries over the item catalog.
type Service struct {
	embed embedding.Embedder
	items recommend.ItemSource
	log   zerolog.Logger
}

// New builds a search service. The embedder should be the raw remote
// client, not a fallback composite: keyword search is the fallback here.
func New(embed embedding.Embedder, items recommend.ItemSource) *Service {
	return &Service{
		embed: embed,
		items: items,
		log:   logging.WithComponent("search"),
	}
}

// Search returns up to limit items matching the query, best first.
// Empty queries and non-positive limits are invalid.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.ScoredRecommendation, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", recommend.ErrInvalidRequest)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d", recommend.ErrInvalidRequest, limit)
	}

	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	results, err := s.semantic(ctx, query, items, limit)
	if err != nil {
		if !errors.Is(err, embedding.ErrUnavailable) {
			return nil, err
		}
		s.log.Warn().Err(err).Msg("semantic search unavailable, using keyword fallback")
		metrics.SearchFallbacks.Inc()
		return Keyword(query, items, limit), nil
	}
	if len(results) == 0 {
		// Nothing carried an embedding yet; keywords still work.
		metrics.SearchFallbacks.Inc()
		return Keyword(query, items, limit), nil
	}
	return results, nil
}

// semantic embeds the query and ranks items by cosine similarity.
func (s *Service) semantic(ctx context.Context, query string, items []models.LearningItem, limit int) ([]models.ScoredRecommendation, error) {
	vecs, err := s.embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	matches := vector.Search(vecs[0], items, limit)
	out := make([]models.ScoredRecommendation, len(matches))
	for i, m := range matches {
		out[i] = models.ScoredRecommendation{
			Item:     m.Item,
			Score:    m.Similarity,
			Reason:   fmt.Sprintf("Semantic match (score: %.2f)", m.Similarity),
			Strategy: StrategySemantic,
		}
	}
	return out, nil
}
