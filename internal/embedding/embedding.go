// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package embedding produces fixed-dimension semantic vectors for
// catalog items and free-text queries.
//
// Two implementations exist: Client calls a remote model service over
// HTTP, and Local computes deterministic vectors in-process. Callers
// that need graceful degradation wrap them with WithFallback.
package embedding

import (
	"context"
	"errors"
	"strings"

	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/models"
)

// ErrUnavailable reports that the embedding backend cannot serve the
// request right now. Callers fall back to a degraded strategy (local
// embedder or keyword search) rather than failing the request.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder turns texts into vectors of models.EmbeddingDim components.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ItemText builds the canonical text an item is embedded from. The
// same composition is used at index and query time; changing it
// invalidates stored embeddings.
func ItemText(it *models.LearningItem) string {
	var b strings.Builder
	b.WriteString(it.Title)
	b.WriteString("\n")
	b.WriteString(it.Description)
	b.WriteString("\n")
	b.WriteString(strings.Join(it.Tags, ", "))
	return b.String()
}

// InterestText builds the query text for a user's interests. Users
// without interests get a generic query so the pipeline still produces
// results.
func InterestText(interests []string) string {
	if len(interests) == 0 {
		return "learning programming"
	}
	return strings.Join(interests, " ")
}

// fallback tries a primary embedder and switches to a secondary when
// the primary reports ErrUnavailable. Other errors pass through.
type fallback struct {
	primary   Embedder
	secondary Embedder
}

// WithFallback wraps primary so that ErrUnavailable responses are
// retried against secondary.
func WithFallback(primary, secondary Embedder) Embedder {
	return &fallback{primary: primary, secondary: secondary}
}

func (f *fallback) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := f.primary.Embed(ctx, texts)
	if err == nil {
		return vecs, nil
	}
	if errors.Is(err, ErrUnavailable) {
		metrics.EmbeddingFallbacks.Inc()
		return f.secondary.Embed(ctx, texts)
	}
	return nil, err
}
