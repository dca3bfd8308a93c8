// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package config loads and validates service configuration from
// defaults, an optional YAML file, and environment variables, in that
// order of precedence (env wins).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Indexer   IndexerConfig   `koanf:"indexer"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// CORSOrigins lists allowed origins; "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	// Path is the Badger database directory. Empty selects an
	// in-memory store, used by tests.
	Path string `koanf:"path"`

	// GCInterval controls how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval" validate:"gt=0"`
}

// EmbeddingConfig holds settings for the embedding backend.
type EmbeddingConfig struct {
	// URL of the remote embedding service. Empty disables the remote
	// client; the deterministic local embedder is used instead.
	URL string `koanf:"url" validate:"omitempty,url"`

	// Timeout bounds a single remote embedding call.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RatePerSecond caps outbound requests to the remote service.
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gt=0"`

	// BreakerFailures is the consecutive-failure count that opens the
	// circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures" validate:"gte=1"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`

	// LocalSeed seeds the deterministic fallback embedder. Fixed seed
	// means identical text always embeds identically.
	LocalSeed int64 `koanf:"local_seed"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultLimit is the result count when a request does not specify one.
	DefaultLimit int `koanf:"default_limit" validate:"gte=1"`

	// MaxLimit caps the per-request result count.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`

	// PeerLimit caps how many similar users collaborative filtering
	// considers per request.
	PeerLimit int `koanf:"peer_limit" validate:"gte=1"`

	// TrendingHorizon excludes items older than this from the trending
	// stage. Zero disables the cutoff.
	TrendingHorizon time.Duration `koanf:"trending_horizon"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Required when auth is enabled.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL bounds access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gt=0"`

	// BcryptCost is the password hashing cost factor.
	BcryptCost int `koanf:"bcrypt_cost" validate:"gte=4,lte=31"`

	// RateLimitReqs allows this many requests per RateLimitWindow per client.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// AuthDisabled turns off token checks. Development only.
	AuthDisabled bool `koanf:"auth_disabled"`
}

// IndexerConfig holds background embedding indexer settings.
type IndexerConfig struct {
	Enabled bool `koanf:"enabled"`

	// Interval is the pause between indexing sweeps.
	Interval time.Duration `koanf:"interval" validate:"gt=0"`

	// BatchSize caps the items embedded per sweep.
	BatchSize int `koanf:"batch_size" validate:"gte=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. Struct tags cover
// ranges; cross-field rules live here.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.default_limit %d exceeds recommend.max_limit %d",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if !c.Security.AuthDisabled && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required unless security.auth_disabled is set")
	}
	if !c.Security.AuthDisabled && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 bytes, got %d", len(c.Security.JWTSecret))
	}

	return nil
}
