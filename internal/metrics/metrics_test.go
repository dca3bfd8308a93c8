// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/search", "200"))

	RecordAPIRequest("GET", "/api/search", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/search", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestRecordRecommendations(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsServed.WithLabelValues("content"))

	RecordRecommendations(map[string]int{"content": 3, "trending": 2})

	after := testutil.ToFloat64(RecommendationsServed.WithLabelValues("content"))
	if after != before+3 {
		t.Errorf("content counter = %v, want %v", after, before+3)
	}
	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("trending")); got < 2 {
		t.Errorf("trending counter = %v, want at least 2", got)
	}
}

func TestRecordEmbeddingOutcomes(t *testing.T) {
	for _, outcome := range []string{"ok", "unavailable", "error"} {
		before := testutil.ToFloat64(EmbeddingRequests.WithLabelValues(outcome))
		RecordEmbedding(outcome)
		if got := testutil.ToFloat64(EmbeddingRequests.WithLabelValues(outcome)); got != before+1 {
			t.Errorf("outcome %q counter = %v, want %v", outcome, got, before+1)
		}
	}
}

func TestRecordIndexerSweep(t *testing.T) {
	before := testutil.ToFloat64(IndexerItemsEmbedded)

	RecordIndexerSweep(5, 120*time.Millisecond)

	if got := testutil.ToFloat64(IndexerItemsEmbedded); got != before+5 {
		t.Errorf("embedded counter = %v, want %v", got, before+5)
	}
}
