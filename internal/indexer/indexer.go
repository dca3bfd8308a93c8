// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package indexer backfills item embeddings in the background. Items
// arrive without vectors (CSV import, direct creation) and would be
// invisible to semantic search until embedded; the indexer sweeps the
// store on an interval and embeds them in batches. An import event on
// the bus triggers an immediate sweep so fresh items do not wait a
// full interval.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/embedding"
	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/metrics"
	"github.com/clwheeler/pathwise/internal/models"
	"github.com/clwheeler/pathwise/internal/notify"
)

// ItemIndex is the slice of the store the indexer needs.
type ItemIndex interface {
	ListWithoutEmbeddings(ctx context.Context, limit int) ([]models.LearningItem, error)
	Put(ctx context.Context, item *models.LearningItem) error
}

// Config controls sweep cadence and batch size.
type Config struct {
	Interval  time.Duration
	BatchSize int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	return c
}

// Indexer is a supervised service. Serve blocks until the context is
// cancelled, which is the suture contract.
type Indexer struct {
	items ItemIndex
	embed embedding.Embedder
	bus   *notify.Bus
	cfg   Config
	log   zerolog.Logger
}

// New builds an Indexer. bus may be nil, in which case only the
// interval sweep runs.
func New(items ItemIndex, embed embedding.Embedder, bus *notify.Bus, cfg Config) *Indexer {
	return &Indexer{
		items: items,
		embed: embed,
		bus:   bus,
		cfg:   cfg.withDefaults(),
		log:   logging.WithComponent("indexer"),
	}
}

// Serve implements suture.Service. It sweeps once at startup, then on
// every tick and on every item.imported event.
func (ix *Indexer) Serve(ctx context.Context) error {
	var imported <-chan struct{}
	if ix.bus != nil {
		ch, err := ix.bus.Subscribe(ctx, notify.TopicItemImported)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", notify.TopicItemImported, err)
		}
		imported = ackAll(ch)
	}

	if n, err := ix.Sweep(ctx); err != nil && ctx.Err() == nil {
		ix.log.Error().Err(err).Msg("initial indexing sweep failed")
	} else if n > 0 {
		ix.log.Info().Int("embedded", n).Msg("initial indexing sweep done")
	}

	ticker := time.NewTicker(ix.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case _, ok := <-imported:
			if !ok {
				imported = nil
				continue
			}
		}

		n, err := ix.Sweep(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ix.log.Error().Err(err).Msg("indexing sweep failed")
			continue
		}
		if n > 0 {
			ix.log.Info().Int("embedded", n).Msg("indexing sweep done")
		}
	}
}

func (ix *Indexer) String() string { return "embedding-indexer" }

// ackAll acks every message and collapses the stream into bare wakeup
// signals. The indexer re-reads the store, so the payload is not
// needed.
func ackAll(in <-chan *message.Message) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for msg := range in {
			msg.Ack()
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}

// Sweep embeds one batch of items that have no vector yet and writes
// the vectors back. It returns the number of items embedded. A sweep
// where the embedding backend is down returns an error and leaves the
// items untouched for the next attempt.
func (ix *Indexer) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	pending, err := ix.items.ListWithoutEmbeddings(ctx, ix.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list unembedded items: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for i := range pending {
		texts[i] = embedding.ItemText(&pending[i])
	}

	vectors, err := ix.embed.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch of %d: %w", len(pending), err)
	}
	if len(vectors) != len(pending) {
		return 0, fmt.Errorf("embed batch: got %d vectors for %d items", len(vectors), len(pending))
	}

	embedded := 0
	for i := range pending {
		item := pending[i]
		item.Embedding = vectors[i]
		if err := ix.items.Put(ctx, &item); err != nil {
			ix.log.Warn().Err(err).Str("item_id", item.ID).Msg("failed to store embedding")
			continue
		}
		embedded++
	}
	metrics.RecordIndexerSweep(embedded, time.Since(start))
	return embedded, nil
}
