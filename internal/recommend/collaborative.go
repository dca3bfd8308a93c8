// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/clwheeler/pathwise/internal/models"
)

// peerGroup selects users similar to profile: sharing at least one
// interest and at the same skill level, excluding the user themselves.
// The result is capped at limit, taken in ascending ID order so the
// same inputs always yield the same group.
func peerGroup(profile *models.UserProfile, all []models.UserProfile, limit int) []models.UserProfile {
	peers := make([]models.UserProfile, 0, limit)
	for i := range all {
		u := &all[i]
		if u.ID == profile.ID {
			continue
		}
		if u.SkillLevel != profile.SkillLevel {
			continue
		}
		if !profile.SharesInterest(u) {
			continue
		}
		peers = append(peers, *u)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ID < peers[j].ID })
	if len(peers) > limit {
		peers = peers[:limit]
	}
	return peers
}

// itemEndorsement pairs an item ID with its helpful-feedback count.
type itemEndorsement struct {
	itemID string
	count  int
}

// collaborative scores items by the count of helpful feedback from the
// peer group, excluding items the user has already interacted with.
// An empty peer group yields an empty result, which the orchestrator
// treats as "stage produced nothing" rather than an error.
func (e *Engine) collaborative(ctx context.Context, profile *models.UserProfile) ([]itemEndorsement, error) {
	all, err := e.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for peer group: %w", err)
	}

	peers := peerGroup(profile, all, e.cfg.PeerLimit)
	if len(peers) == 0 {
		return nil, nil
	}

	peerIDs := make([]string, len(peers))
	for i := range peers {
		peerIDs[i] = peers[i].ID
	}

	records, err := e.feedback.ForUsers(ctx, peerIDs)
	if err != nil {
		return nil, fmt.Errorf("load peer feedback: %w", err)
	}

	interacted := make(map[string]struct{}, len(profile.Interactions))
	for id := range profile.Interactions {
		interacted[id] = struct{}{}
	}

	counts := make(map[string]int)
	for i := range records {
		r := &records[i]
		if !r.Helpful {
			continue
		}
		if _, done := interacted[r.ItemID]; done {
			continue
		}
		counts[r.ItemID]++
	}

	out := make([]itemEndorsement, 0, len(counts))
	for id, n := range counts {
		out = append(out, itemEndorsement{itemID: id, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].itemID < out[j].itemID
	})
	return out, nil
}
