// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/clwheeler/pathwise/internal/models"
)

// Local is an in-process embedder built on token feature hashing. It
// is not a substitute for a trained model, but it has the properties
// the pipeline needs when the model service is down: identical text
// always maps to the identical unit vector, texts sharing tokens land
// near each other, and vectors have the same dimension as the remote
// model's output.
type Local struct {
	seed uint64
}

// NewLocal creates a deterministic embedder. The same seed always
// reproduces the same text-to-vector mapping, so stored vectors and
// query vectors stay comparable across restarts.
func NewLocal(seed int64) *Local {
	return &Local{seed: uint64(seed)}
}

// Embed never fails and never blocks beyond context cancellation.
func (l *Local) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vecs[i] = l.embedOne(text)
	}
	return vecs, nil
}

// embedOne hashes each token into two vector components with
// hash-derived signs, then L2-normalizes the result.
func (l *Local) embedOne(text string) []float32 {
	vec := make([]float32, models.EmbeddingDim)

	for _, tok := range tokenize(text) {
		h := fnv.New64a()
		// Seed prefix keeps mappings from different seeds uncorrelated.
		_, _ = h.Write([]byte{byte(l.seed), byte(l.seed >> 8), byte(l.seed >> 16), byte(l.seed >> 24)})
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64() ^ l.seed

		idx1 := int(sum % models.EmbeddingDim)
		idx2 := int((sum >> 16) % models.EmbeddingDim)
		sign1 := float32(1)
		if sum&(1<<32) != 0 {
			sign1 = -1
		}
		sign2 := float32(1)
		if sum&(1<<48) != 0 {
			sign2 = -1
		}
		vec[idx1] += sign1
		vec[idx2] += sign2 * 0.5
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Empty or all-cancelled text: use a fixed basis vector so the
		// result is still a valid unit vector.
		vec[0] = 1
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}
