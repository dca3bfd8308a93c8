// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/notify"
	"github.com/clwheeler/pathwise/internal/store"
)

type registerRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Interests  []string `json:"interests"`
	SkillLevel string   `json:"skill_level"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "password must be at least 8 characters")
		return
	}

	skill := models.DifficultyBeginner
	if req.SkillLevel != "" {
		parsed, err := models.ParseDifficulty(req.SkillLevel)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		skill = parsed
	}

	if _, err := s.store.Users.GetByEmail(r.Context(), req.Email); err == nil {
		respondError(w, r, http.StatusConflict, "CONFLICT", "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondServiceError(w, r, err)
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	profile := &models.UserProfile{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Interests:    req.Interests,
		SkillLevel:   skill,
	}
	if err := s.store.Users.Put(r.Context(), profile); err != nil {
		respondServiceError(w, r, err)
		return
	}

	token, err := s.auth.IssueToken(profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.publish(r, notify.TopicUserRegistered, notify.UserEvent{
		UserID: profile.ID,
		At:     time.Now().UTC(),
	})
	respondJSON(w, r, http.StatusCreated, tokenResponse{Token: token, UserID: profile.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	profile, err := s.store.Users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same response for unknown email and wrong password.
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}
	if err := s.auth.CheckPassword(profile.PasswordHash, req.Password); err != nil {
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := s.auth.IssueToken(profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, tokenResponse{Token: token, UserID: profile.ID})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	profile, err := s.store.Users.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, profile)
}

type updateUserRequest struct {
	Name       *string   `json:"name"`
	Interests  *[]string `json:"interests"`
	SkillLevel *string   `json:"skill_level"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	profile, err := s.store.Users.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Interests != nil {
		profile.Interests = *req.Interests
	}
	if req.SkillLevel != nil {
		skill, err := models.ParseDifficulty(*req.SkillLevel)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		profile.SkillLevel = skill
	}

	if err := s.store.Users.Put(r.Context(), profile); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, profile)
}
