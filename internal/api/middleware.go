// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/metrics"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userIDFromContext returns the authenticated user's ID, or "".
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requestID assigns every request an ID, propagated via context and
// the X-Request-ID response header. An incoming X-Request-ID is kept
// so callers can correlate across services.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		ctx := r.Context()
		if id == "" {
			ctx = logging.ContextWithNewRequestID(ctx)
			id = logging.RequestIDFromContext(ctx)
		} else {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger emits one log line per request and feeds the API
// metrics.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, routePattern(r), strconv.Itoa(status), elapsed)

		evt := logging.Ctx(r.Context()).Info()
		if status >= http.StatusInternalServerError {
			evt = logging.Ctx(r.Context()).Error()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Int("bytes", ww.BytesWritten()).
			Msg("http request")
	})
}

// routePattern returns the chi route pattern so metrics label
// cardinality stays bounded. Unmatched requests report the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// authenticate requires a Bearer token and stores the verified user ID
// in the request context. When disabled, a user_id query parameter or
// X-User-ID header stands in; that mode is for development only.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authDisabled {
			userID := r.URL.Query().Get("user_id")
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}

		userID, err := s.auth.VerifyToken(token)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
