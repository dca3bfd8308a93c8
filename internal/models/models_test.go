// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package models

import "testing"

func TestLearningItemValidateEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		wantErr bool
	}{
		{name: "no embedding", dim: 0, wantErr: false},
		{name: "full dimension", dim: EmbeddingDim, wantErr: false},
		{name: "truncated vector", dim: EmbeddingDim - 1, wantErr: true},
		{name: "oversized vector", dim: EmbeddingDim + 1, wantErr: true},
		{name: "single component", dim: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := LearningItem{ID: "item-1"}
			if tt.dim > 0 {
				it.Embedding = make([]float32, tt.dim)
			}
			err := it.ValidateEmbedding()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmbedding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if wantHas := tt.dim == EmbeddingDim; it.HasEmbedding() != wantHas {
				t.Errorf("HasEmbedding() = %v, want %v", it.HasEmbedding(), wantHas)
			}
		})
	}
}

func TestUserProfileHasHistory(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		want    bool
	}{
		{name: "empty profile", profile: UserProfile{ID: "u1"}, want: false},
		{
			name:    "interests only",
			profile: UserProfile{ID: "u1", Interests: []string{"python"}},
			want:    true,
		},
		{
			name: "interactions only",
			profile: UserProfile{ID: "u1", Interactions: map[string]Interaction{
				"item-1": {Status: StatusCompleted},
			}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.HasHistory(); got != tt.want {
				t.Errorf("HasHistory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserProfileSharesInterest(t *testing.T) {
	base := UserProfile{ID: "u1", Interests: []string{"Python", "Machine Learning"}}

	tests := []struct {
		name  string
		other UserProfile
		want  bool
	}{
		{
			name:  "shared interest different case",
			other: UserProfile{ID: "u2", Interests: []string{"python"}},
			want:  true,
		},
		{
			name:  "no overlap",
			other: UserProfile{ID: "u3", Interests: []string{"java"}},
			want:  false,
		},
		{
			name:  "empty interests",
			other: UserProfile{ID: "u4"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.SharesInterest(&tt.other); got != tt.want {
				t.Errorf("SharesInterest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInteractedItemIDs(t *testing.T) {
	p := UserProfile{
		ID: "u1",
		Interactions: map[string]Interaction{
			"a": {Status: StatusCompleted},
			"b": {Status: StatusBookmarked, Bookmarked: true},
		},
	}

	ids := p.InteractedItemIDs()
	if len(ids) != 2 {
		t.Fatalf("InteractedItemIDs() returned %d ids, want 2", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("InteractedItemIDs() = %v, want ids a and b", ids)
	}
}
