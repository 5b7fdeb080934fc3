// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
)

// Difficulty selects the round rules and the prompt pool.
type Difficulty string

// Supported difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q (want easy, normal or hard)", s)
	}
	return d, nil
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// MaxPromptLevel is the highest prompt difficulty drawn at d.
func (d Difficulty) MaxPromptLevel() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 2
	default:
		return 3
	}
}

// Prompt is one multiple-choice question.
type Prompt struct {
	ID         string
	Text       string
	Choices    []string
	Answer     int
	Difficulty int
	Category   string
}

// Correct reports whether choice is the index of the right answer.
func (p Prompt) Correct(choice int) bool {
	return choice >= 0 && choice < len(p.Choices) && choice == p.Answer
}

// Config defines play settings.
type Config struct {
	Difficulty       Difficulty
	RoundSeconds     int
	Lives            int
	CountdownSeconds int
	DeckPath         string
	Seed             int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Difficulty Difficulty
	Last       int
	Window     int
}
