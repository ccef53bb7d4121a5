package domain

import (
	"errors"
	"strings"
	"time"
)

// LeaderboardSize is how many entries one difficulty board shows.
const LeaderboardSize = 10

var ErrUnknownDifficulty = errors.New("difficulty must be easy, medium or hard")

// Difficulty selects the per-puzzle time limit. Each difficulty has its own
// leaderboard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", ErrUnknownDifficulty
}

// Score is one finished game. PlayerName is the player's email at the time
// of submission.
type Score struct {
	ID         string
	UserID     string
	PlayerName string
	Difficulty Difficulty
	Points     int64
	CreatedAt  time.Time
}
