// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package models

import "testing"

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Difficulty
		wantErr bool
	}{
		{name: "course vocabulary beginner", input: "Beginner", want: DifficultyBeginner},
		{name: "course vocabulary intermediate", input: "Intermediate", want: DifficultyIntermediate},
		{name: "course vocabulary advanced", input: "Advanced", want: DifficultyAdvanced},
		{name: "task vocabulary easy", input: "Easy", want: DifficultyBeginner},
		{name: "task vocabulary medium", input: "Medium", want: DifficultyIntermediate},
		{name: "task vocabulary hard", input: "Hard", want: DifficultyAdvanced},
		{name: "case insensitive", input: "bEgInNeR", want: DifficultyBeginner},
		{name: "unknown string", input: "expert", want: DifficultyUnknown, wantErr: true},
		{name: "empty string", input: "", want: DifficultyUnknown, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDifficulty(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDifficultyMappingRoundTrip(t *testing.T) {
	// Both vocabularies must round-trip through the canonical enum.
	for _, d := range []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		fromCourse, err := ParseDifficulty(d.String())
		if err != nil {
			t.Fatalf("ParseDifficulty(%q) error = %v", d.String(), err)
		}
		if fromCourse != d {
			t.Errorf("course round trip: got %v, want %v", fromCourse, d)
		}

		fromTask, err := ParseDifficulty(d.TaskTier())
		if err != nil {
			t.Fatalf("ParseDifficulty(%q) error = %v", d.TaskTier(), err)
		}
		if fromTask != d {
			t.Errorf("task round trip: got %v, want %v", fromTask, d)
		}
	}
}

func TestDifficultyJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Difficulty
	}{
		{name: "course name", in: `"Advanced"`, want: DifficultyAdvanced},
		{name: "task name", in: `"Medium"`, want: DifficultyIntermediate},
		{name: "empty", in: `""`, want: DifficultyUnknown},
		{name: "null", in: `null`, want: DifficultyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Difficulty
			if err := d.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.in, err)
			}
			if d != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.in, d, tt.want)
			}
		})
	}

	out, err := DifficultyBeginner.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(out) != `"Beginner"` {
		t.Errorf("MarshalJSON() = %s, want %q", out, `"Beginner"`)
	}
}

func TestDifficultyValid(t *testing.T) {
	if DifficultyUnknown.Valid() {
		t.Error("DifficultyUnknown.Valid() = true, want false")
	}
	if !DifficultyBeginner.Valid() || !DifficultyAdvanced.Valid() {
		t.Error("known tiers must be valid")
	}
}
