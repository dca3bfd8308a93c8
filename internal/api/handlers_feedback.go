// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package api

import (
	"net/http"
	"time"

	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/notify"
)

type feedbackRequest struct {
	ItemID           string `json:"item_id"`
	Helpful          bool   `json:"helpful"`
	DifficultyRating int    `json:"difficulty_rating"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.ItemID == "" {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "item_id is required")
		return
	}
	// Zero means "not provided" for both ratings.
	if req.DifficultyRating != 0 && (req.DifficultyRating < 1 || req.DifficultyRating > 5) {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "difficulty_rating must be 1-5")
		return
	}
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "rating must be 1-5")
		return
	}

	// The item must exist; feedback on unknown items would poison
	// calibration.
	if _, err := s.store.Items.Get(r.Context(), req.ItemID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	record := &models.FeedbackRecord{
		UserID:           userID,
		ItemID:           req.ItemID,
		Helpful:          req.Helpful,
		DifficultyRating: req.DifficultyRating,
		Rating:           req.Rating,
		Comment:          req.Comment,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.Feedback.Put(r.Context(), record); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.FeedbackRecords.Inc()

	s.publish(r, notify.TopicFeedbackSubmitted, notify.FeedbackEvent{
		UserID:  userID,
		ItemID:  req.ItemID,
		Helpful: req.Helpful,
		At:      record.CreatedAt,
	})
	respondJSON(w, r, http.StatusCreated, record)
}

type interactionRequest struct {
	ItemID     string `json:"item_id"`
	Status     string `json:"status"`
	Bookmarked bool   `json:"bookmarked"`
}

var validStatuses = map[models.InteractionStatus]struct{}{
	models.StatusStarted:    {},
	models.StatusInProgress: {},
	models.StatusCompleted:  {},
	models.StatusBookmarked: {},
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req interactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.ItemID == "" {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "item_id is required")
		return
	}
	status := models.InteractionStatus(req.Status)
	if _, ok := validStatuses[status]; !ok {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "unknown interaction status")
		return
	}

	if _, err := s.store.Items.Get(r.Context(), req.ItemID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	now := time.Now().UTC()
	interaction := models.Interaction{
		Status:     status,
		StartedAt:  now,
		Bookmarked: req.Bookmarked || status == models.StatusBookmarked,
	}
	if status == models.StatusCompleted {
		interaction.CompletedAt = now
	}

	if err := s.store.Users.RecordInteraction(r.Context(), userID, req.ItemID, interaction); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_id":     userID,
		"item_id":     req.ItemID,
		"interaction": interaction,
	})
}
