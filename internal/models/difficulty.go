// Pathwise - Learning Content Recommendation Service
// Copyright 2026 Chris Wheeler (clwheeler)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clwheeler/pathwise

package models

import "fmt"

// Difficulty is the canonical three-tier difficulty vocabulary.
//
// The corpus historically carried two parallel vocabularies:
// Beginner/Intermediate/Advanced for courses and articles, and
// Easy/Medium/Hard for micro-tasks. Call sites must never compare the
// raw strings across vocabularies; both are parsed into this enum at
// the boundary and mapped back out explicitly where a task-facing
// label is needed.
type Difficulty int

const (
	// DifficultyUnknown is the zero value for unset or unparseable input.
	DifficultyUnknown Difficulty = iota
	// DifficultyBeginner maps to the task tier "Easy".
	DifficultyBeginner
	// DifficultyIntermediate maps to the task tier "Medium".
	DifficultyIntermediate
	// DifficultyAdvanced maps to the task tier "Hard".
	DifficultyAdvanced
)

// String returns the course-vocabulary name for the difficulty.
func (d Difficulty) String() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// TaskTier returns the task-vocabulary name for the difficulty.
func (d Difficulty) TaskTier() string {
	switch d {
	case DifficultyBeginner:
		return "Easy"
	case DifficultyIntermediate:
		return "Medium"
	case DifficultyAdvanced:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Valid reports whether the difficulty is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d >= DifficultyBeginner && d <= DifficultyAdvanced
}

// difficultyNames maps both vocabularies onto the canonical enum.
var difficultyNames = map[string]Difficulty{
	"beginner":     DifficultyBeginner,
	"easy":         DifficultyBeginner,
	"intermediate": DifficultyIntermediate,
	"medium":       DifficultyIntermediate,
	"advanced":     DifficultyAdvanced,
	"hard":         DifficultyAdvanced,
}

// ParseDifficulty parses either vocabulary, case-insensitively.
// Unknown input returns DifficultyUnknown and an error; callers at the
// repository boundary decide whether that is fatal.
func ParseDifficulty(s string) (Difficulty, error) {
	if d, ok := difficultyNames[lower(s)]; ok {
		return d, nil
	}
	return DifficultyUnknown, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalJSON encodes the difficulty as its course-vocabulary name.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts either vocabulary.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = DifficultyUnknown
		return nil
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// lower is a minimal ASCII lowercase; difficulty names are ASCII-only.
func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
