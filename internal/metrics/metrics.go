// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package metrics exposes Prometheus instrumentation for the HTTP
// surface, the recommendation pipeline, the embedding backend, and
// the background indexer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathwise_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation pipeline metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_recommendations_served_total",
			Help: "Total recommendations returned, by strategy",
		},
		[]string{"strategy"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pathwise_recommendation_duration_seconds",
			Help:    "Recommendation request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "recommend", "cold_start", "task_rerank", "search"
	)

	// Embedding backend metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathwise_embedding_requests_total",
			Help: "Total embedding backend calls",
		},
		[]string{"outcome"}, // "ok", "unavailable", "error"
	)

	EmbeddingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathwise_embedding_fallbacks_total",
			Help: "Total requests served by the local fallback embedder",
		},
	)

	SearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathwise_search_keyword_fallbacks_total",
			Help: "Total searches that fell back to keyword matching",
		},
	)

	// Indexer metrics
	IndexerItemsEmbedded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathwise_indexer_items_embedded_total",
			Help: "Total items embedded by the background indexer",
		},
	)

	IndexerSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathwise_indexer_sweep_duration_seconds",
			Help:    "Duration of indexer sweeps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	// Store metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pathwise_catalog_items",
			Help: "Current number of catalog items",
		},
	)

	FeedbackRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pathwise_feedback_records_total",
			Help: "Total feedback records accepted",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendations counts served recommendations per strategy.
func RecordRecommendations(strategies map[string]int) {
	for strategy, n := range strategies {
		RecommendationsServed.WithLabelValues(strategy).Add(float64(n))
	}
}

// RecordEmbedding records one embedding backend call outcome.
func RecordEmbedding(outcome string) {
	EmbeddingRequests.WithLabelValues(outcome).Inc()
}

// RecordIndexerSweep records one completed indexer sweep.
func RecordIndexerSweep(embedded int, duration time.Duration) {
	IndexerItemsEmbedded.Add(float64(embedded))
	IndexerSweepDuration.Observe(duration.Seconds())
}
