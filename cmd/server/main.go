// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package main is the entry point for the Pathwise server.
//
// Pathwise recommends learning content (courses, articles, videos,
// practice tasks) from a user's interests, skill level, peer signals,
// and task feedback. Semantic search and task re-ranking run on text
// embeddings from a remote model service, with a deterministic local
// embedder as fallback.
//
// # Startup order
//
//  1. Configuration: koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, JSON or console format
//  3. Store: BadgerDB (persistent at STORE_PATH, in-memory when empty)
//  4. Embedding: remote client with circuit breaker when EMBEDDING_URL
//     is set, local fallback always available
//  5. Services: recommendation engine, task reranker, search, auth,
//     CSV importer, event bus
//  6. Supervisor: background indexer, notification dispatcher, store
//     GC, HTTP server under a suture tree
//
// # Configuration
//
// Environment variables override config.yaml which overrides built-in
// defaults. The important ones:
//
//	HTTP_HOST, HTTP_PORT   listen address (default 0.0.0.0:8080)
//	STORE_PATH             Badger directory (default /data/pathwise)
//	EMBEDDING_URL          remote embedding service; empty runs local-only
//	JWT_SECRET             32+ byte token signing secret
//	AUTH_DISABLED          development only, skips token checks
//	LOG_LEVEL, LOG_FORMAT  zerolog settings
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, background services stop, the store closes last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clwheeler/pathwise/internal/api"
	"github.com/clwheeler/pathwise/internal/auth"
	"github.com/clwheeler/pathwise/internal/config"
	"github.com/clwheeler/pathwise/internal/embedding"
	"github.com/clwheeler/pathwise/internal/importer"
	"github.com/clwheeler/pathwise/internal/indexer"
	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/notify"
	"github.com/clwheeler/pathwise/internal/recommend"
	"github.com/clwheeler/pathwise/internal/recommend/reranking"
	"github.com/clwheeler/pathwise/internal/search"
	"github.com/clwheeler/pathwise/internal/store"
	"github.com/clwheeler/pathwise/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store_path", cfg.Store.Path).
		Bool("remote_embedding", cfg.Embedding.URL != "").
		Bool("auth_disabled", cfg.Security.AuthDisabled).
		Msg("starting pathwise")

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	// The local embedder always works; the remote client, when
	// configured, is preferred and falls back to local on outage. The
	// search service gets the raw stack because keyword matching is
	// its own fallback.
	local := embedding.NewLocal(cfg.Embedding.LocalSeed)
	embedder := embedding.Embedder(local)
	searchEmbedder := embedding.Embedder(local)
	if cfg.Embedding.URL != "" {
		remote := embedding.NewClient(embedding.ClientConfig{
			URL:             cfg.Embedding.URL,
			Timeout:         cfg.Embedding.Timeout,
			RatePerSecond:   cfg.Embedding.RatePerSecond,
			BreakerFailures: cfg.Embedding.BreakerFailures,
			BreakerCooldown: cfg.Embedding.BreakerCooldown,
		})
		embedder = embedding.WithFallback(remote, local)
		searchEmbedder = remote
	}

	recCfg := recommend.Config{
		DefaultLimit:    cfg.Recommend.DefaultLimit,
		MaxLimit:        cfg.Recommend.MaxLimit,
		PeerLimit:       cfg.Recommend.PeerLimit,
		TrendingHorizon: cfg.Recommend.TrendingHorizon,
	}
	engine := recommend.New(st.Items, st.Users, st.Feedback, recCfg)
	reranker := reranking.New(embedder, st.Items, st.Users, st.Feedback, recCfg)
	searcher := search.New(searchEmbedder, st.Items)
	authSvc := auth.New(cfg.Security.JWTSecret, cfg.Security.TokenTTL, cfg.Security.BcryptCost)

	bus := notify.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event bus")
		}
	}()

	srv := api.NewServer(engine, reranker, searcher, authSvc, st, importer.New(st.Items), bus, api.Config{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Security.RateLimitReqs,
		RateLimitWindow: cfg.Security.RateLimitWindow,
		RequestTimeout:  cfg.Server.Timeout,
		AuthDisabled:    cfg.Security.AuthDisabled,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sup := supervisor.New("pathwise", supervisor.DefaultConfig())
	if cfg.Indexer.Enabled {
		sup.Add(indexer.New(st.Items, embedder, bus, indexer.Config{
			Interval:  cfg.Indexer.Interval,
			BatchSize: cfg.Indexer.BatchSize,
		}))
		logging.Info().
			Dur("interval", cfg.Indexer.Interval).
			Int("batch_size", cfg.Indexer.BatchSize).
			Msg("background indexer enabled")
	}
	sup.Add(notify.NewDispatcher(bus, st.Notifications))
	if cfg.Store.Path != "" {
		sup.Add(supervisor.NewPeriodic("store-gc", cfg.Store.GCInterval, func(context.Context) error {
			return st.RunGC()
		}))
	}
	sup.Add(supervisor.NewHTTPService(httpServer, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", httpServer.Addr).Msg("pathwise listening")
	errCh := sup.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
	}

	logging.Info().Msg("pathwise stopped")
}
