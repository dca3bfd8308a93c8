// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/notify"
	"github.com/clwheeler/pathwise/internal/recommend"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// limitParam parses the limit query parameter. present distinguishes
// an omitted parameter, where the handler substitutes a default, from
// an explicit value, which the services validate as-is. An explicit
// zero is therefore rejected rather than silently defaulted.
func limitParam(r *http.Request) (limit int, present, ok bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, false, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, false
	}
	return limit, true, true
}

// filtersParam parses the kind, difficulty, and topic query
// parameters, each accepting comma-separated values.
func filtersParam(r *http.Request) (recommend.Filters, error) {
	var f recommend.Filters
	q := r.URL.Query()

	for _, raw := range splitParam(q.Get("kind")) {
		f.Kinds = append(f.Kinds, models.ItemKind(raw))
	}
	for _, raw := range splitParam(q.Get("difficulty")) {
		d, err := models.ParseDifficulty(raw)
		if err != nil {
			return recommend.Filters{}, fmt.Errorf("unknown difficulty %q", raw)
		}
		f.Difficulties = append(f.Difficulties, d)
	}
	f.Topics = splitParam(q.Get("topic"))
	return f, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// requireUser resolves the acting user from the auth context.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "no authenticated user")
		return "", false
	}
	return userID, true
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	limit, present, ok := limitParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
		return
	}
	if !present {
		limit = s.engine.DefaultLimit()
	}
	filters, err := filtersParam(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	start := time.Now()
	recs, err := s.engine.Recommend(r.Context(), userID, limit, filters)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecommendationDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds())
	recordStrategies(recs)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

func (s *Server) handleColdStart(w http.ResponseWriter, r *http.Request) {
	limit, present, ok := limitParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
		return
	}
	if !present {
		limit = s.engine.DefaultLimit()
	}

	start := time.Now()
	recs, err := s.engine.ColdStart(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecommendationDuration.WithLabelValues("cold_start").Observe(time.Since(start).Seconds())
	recordStrategies(recs)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	})
}

func (s *Server) handleTaskRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	limit, present, ok := limitParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
		return
	}
	if !present {
		limit = s.engine.DefaultLimit()
	}

	start := time.Now()
	recs, err := s.reranker.TaskRecommendations(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecommendationDuration.WithLabelValues("task_rerank").Observe(time.Since(start).Seconds())
	recordStrategies(recs)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, present, ok := limitParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
		return
	}
	if !present {
		limit = 10
	}

	start := time.Now()
	results, err := s.searcher.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecommendationDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())

	respondJSON(w, r, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Items.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.CatalogItems.Set(float64(len(items)))
	respondJSON(w, r, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.Items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.LearningItem
	if err := decodeJSON(w, r, &item); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if item.Title == "" {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}
	if item.Kind == "" {
		item.Kind = models.KindCourse
	}
	item.Active = true

	if err := s.store.Items.Put(r.Context(), &item); err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.publish(r, notify.TopicItemImported, notify.ItemEvent{
		ItemID: item.ID,
		Title:  item.Title,
		At:     time.Now().UTC(),
	})
	respondJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)

	res, err := s.importer.ImportItems(r.Context(), r.Body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if res.Created > 0 {
		s.publish(r, notify.TopicItemImported, notify.ItemEvent{At: time.Now().UTC()})
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	notifications, err := s.store.Notifications.ForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// publish drops events when no bus is wired. Publish failures are
// logged, never surfaced to the client.
func (s *Server) publish(r *http.Request, topic string, event any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, event); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

func recordStrategies(recs []models.ScoredRecommendation) {
	if len(recs) == 0 {
		return
	}
	byStrategy := make(map[string]int)
	for i := range recs {
		byStrategy[recs[i].Strategy]++
	}
	metrics.RecordRecommendations(byStrategy)
}
