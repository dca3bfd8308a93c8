// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

// Package recommend implements the recommendation engine.
//
// The engine runs a fixed pipeline of strategies per request:
//
//  1. Interest matching: content-based scoring over items sharing at
//     least one tag with the user's interests.
//  2. Collaborative filtering: items peers with similar profiles found
//     helpful.
//  3. Skill-level popularity: highly rated items at the user's level.
//  4. Global trending: rating, likes and recency, unrestricted.
//
// Each stage fills only the remaining deficit and never repeats an
// item a previous stage produced. A cancelled request returns whatever
// has been accumulated so far. Users without interests bypass the
// pipeline entirely and receive the cold-start blend.
//
// The engine is stateless: it reads repository snapshots, emits
// ephemeral ScoredRecommendation values, and holds no mutable state
// across requests.
package recommend
