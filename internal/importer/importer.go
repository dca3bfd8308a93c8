// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package importer ingests catalog items from CSV. Rows whose title is
// already in the store are skipped, so re-running an import is safe.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clwheeler/pathwise/internal/logging"
	"github.com/clwheeler/pathwise/internal/models"
)

// ItemSink receives imported items.
type ItemSink interface {
	Put(ctx context.Context, item *models.LearningItem) error
	List(ctx context.Context) ([]models.LearningItem, error)
}

// Importer loads catalog CSV files.
type Importer struct {
	items ItemSink
	log   zerolog.Logger
}

// New builds an Importer writing to items.
func New(items ItemSink) *Importer {
	return &Importer{items: items, log: logging.WithComponent("importer")}
}

// Result summarizes one import run.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ImportItems reads item rows from r. Expected header columns:
// title, description, type, difficulty, duration, tags, category,
// author, rating, likes, url. Column order is free; unknown columns
// are ignored. Bad rows are counted and skipped, never fatal.
func (im *Importer) ImportItems(ctx context.Context, r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, fmt.Errorf("csv is missing required column %q", "title")
	}

	existing, err := im.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing items: %w", err)
	}
	haveTitle := make(map[string]struct{}, len(existing))
	for i := range existing {
		haveTitle[strings.ToLower(existing[i].Title)] = struct{}{}
	}

	res := &Result{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			im.log.Warn().Err(err).Int("line", line).Msg("skipping malformed csv row")
			res.Failed++
			continue
		}

		item, err := im.rowToItem(record, col)
		if err != nil {
			im.log.Warn().Err(err).Int("line", line).Msg("skipping invalid csv row")
			res.Failed++
			continue
		}

		if _, dup := haveTitle[strings.ToLower(item.Title)]; dup {
			res.Skipped++
			continue
		}
		if err := im.items.Put(ctx, item); err != nil {
			im.log.Warn().Err(err).Str("title", item.Title).Msg("failed to store imported item")
			res.Failed++
			continue
		}
		haveTitle[strings.ToLower(item.Title)] = struct{}{}
		res.Created++
	}

	im.log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("csv import finished")
	return res, nil
}

func (im *Importer) rowToItem(record []string, col map[string]int) (*models.LearningItem, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	title := get("title")
	if title == "" {
		return nil, fmt.Errorf("empty title")
	}

	item := &models.LearningItem{
		ID:          uuid.New().String(),
		Title:       title,
		Description: get("description"),
		Kind:        models.ItemKind(strings.ToLower(get("type"))),
		Duration:    get("duration"),
		Category:    get("category"),
		Author:      get("author"),
		URL:         get("url"),
		Active:      true,
	}
	if item.Kind == "" {
		item.Kind = models.KindCourse
	}

	if raw := get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				item.Tags = append(item.Tags, tag)
			}
		}
	}

	if raw := get("difficulty"); raw != "" {
		diff, err := models.ParseDifficulty(raw)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", title, err)
		}
		item.Difficulty = diff
	}

	if raw := get("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return nil, fmt.Errorf("row %q: bad rating %q", title, raw)
		}
		item.Rating = rating
	}
	if raw := get("likes"); raw != "" {
		likes, err := strconv.Atoi(raw)
		if err != nil || likes < 0 {
			return nil, fmt.Errorf("row %q: bad likes %q", title, raw)
		}
		item.Likes = likes
	}

	return item, nil
}
