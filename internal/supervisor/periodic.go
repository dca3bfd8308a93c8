// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package supervisor

import (
	"context"
	"time"

	"github.com/clwheeler/pathwise/internal/logging"
)

// Periodic adapts a recurring task to suture.Service. The store's
// value-log garbage collection runs this way.
type Periodic struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// NewPeriodic wraps run to execute every interval until shutdown.
func NewPeriodic(name string, interval time.Duration, run func(ctx context.Context) error) *Periodic {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Periodic{name: name, interval: interval, run: run}
}

// Serve implements suture.Service. Task errors are logged, not fatal;
// the next tick retries.
func (p *Periodic) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.run(ctx); err != nil && ctx.Err() == nil {
				logger := logging.WithComponent(p.name)
				logger.Warn().Err(err).Msg("periodic task failed")
			}
		}
	}
}

func (p *Periodic) String() string { return p.name }
