// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package api is the HTTP surface. Routing uses chi with the
// production middleware stack: CORS, per-client rate limiting,
// request IDs, request logging, Prometheus metrics, and bearer-token
// authentication on everything except health, metrics, and the auth
// endpoints themselves.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clwheeler/pathwise/internal/auth"
	"github.com/clwheeler/pathwise/internal/importer"
	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/notify"
	"github.com/clwheeler/pathwise/internal/recommend"
	"github.com/clwheeler/pathwise/internal/recommend/reranking"
	"github.com/clwheeler/pathwise/internal/search"
	"github.com/clwheeler/pathwise/internal/store"
)

// Config holds the HTTP-level settings the server needs.
type Config struct {
	// CORSOrigins lists allowed origins; "*" allows all.
	CORSOrigins []string

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int
	RateLimitWindow time.Duration

	// RequestTimeout bounds handler execution.
	RequestTimeout time.Duration

	// AuthDisabled turns off token checks. Development only.
	AuthDisabled bool
}

func (c Config) withDefaults() Config {
	if c.RateLimitReqs <= 0 {
		c.RateLimitReqs = 100
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = time.Minute
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return c
}

// Server bundles the services the handlers call.
type Server struct {
	engine   *recommend.Engine
	reranker *reranking.Service
	searcher *search.Service
	auth     *auth.Service
	store    *store.Store
	importer *importer.Importer
	bus      *notify.Bus

	authDisabled bool
	cfg          Config
}

// NewServer wires the handler set. bus may be nil; events are then
// dropped.
func NewServer(
	engine *recommend.Engine,
	reranker *reranking.Service,
	searcher *search.Service,
	authSvc *auth.Service,
	st *store.Store,
	imp *importer.Importer,
	bus *notify.Bus,
	cfg Config,
) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		engine:       engine,
		reranker:     reranker,
		searcher:     searcher,
		auth:         authSvc,
		store:        st,
		importer:     imp,
		bus:          bus,
		authDisabled: cfg.AuthDisabled,
		cfg:          cfg,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.Limit(
			s.cfg.RateLimitReqs,
			s.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.APIRateLimitHits.WithLabelValues(routePattern(r)).Inc()
				respondError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			}),
		))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/recommendations/cold-start", s.handleColdStart)
			r.Get("/tasks/recommendations", s.handleTaskRecommendations)
			r.Get("/search", s.handleSearch)

			r.Get("/items", s.handleListItems)
			r.Get("/items/{id}", s.handleGetItem)
			r.Post("/items", s.handleCreateItem)
			r.Post("/import", s.handleImport)

			r.Get("/users/me", s.handleCurrentUser)
			r.Put("/users/me", s.handleUpdateUser)
			r.Get("/notifications", s.handleNotifications)

			r.Post("/feedback", s.handleFeedback)
			r.Post("/interactions", s.handleInteraction)
		})
	})

	return r
}
