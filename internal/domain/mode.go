package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Mode is one of the fixed game configurations.
type Mode string

const (
	ModeQuickQuiz  Mode = "quick"
	ModeStandard   Mode = "standard"
	ModeChallenge  Mode = "challenge"
	ModePerfectRun Mode = "perfect-run"
	ModeUnlimited  Mode = "unlimited"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeQuickQuiz, ModeStandard, ModeChallenge, ModePerfectRun, ModeUnlimited}

// ParseMode accepts the canonical names plus a few aliases used by older clients.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "quick", "quick10", "quickquiz":
		return ModeQuickQuiz, nil
	case "standard", "standard25":
		return ModeStandard, nil
	case "challenge", "challenge50":
		return ModeChallenge, nil
	case "perfect-run", "perfect", "perfectrun", "streak":
		return ModePerfectRun, nil
	case "unlimited", "practice":
		return ModeUnlimited, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// Limit returns the question cap and whether the mode is capped at all.
func (m Mode) Limit() (int, bool) {
	switch m {
	case ModeQuickQuiz:
		return 10, true
	case ModeStandard:
		return 25, true
	case ModeChallenge:
		return 50, true
	}
	return 0, false
}

// Capped reports whether the mode ends after a fixed number of questions.
func (m Mode) Capped() bool {
	_, ok := m.Limit()
	return ok
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return slices.Contains(Modes, m)
}

// Ranked reports whether finished sessions of this mode may enter the leaderboard.
func (m Mode) Ranked() bool {
	return m != ModeUnlimited
}

// StreakRanked reports whether the leaderboard metric is a streak length instead of a score.
func (m Mode) StreakRanked() bool {
	return m == ModePerfectRun
}

// Difficulty narrows the player pool a session draws from.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty defaults to hard on empty input.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "hard":
		return DifficultyHard, nil
	case "medium":
		return DifficultyMedium, nil
	case "easy":
		return DifficultyEasy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Includes reports whether a player tagged with tier belongs to the pool of d.
// Untagged players count as hard.
func (d Difficulty) Includes(tier Difficulty) bool {
	if tier == "" {
		tier = DifficultyHard
	}
	switch d {
	case DifficultyEasy:
		return tier == DifficultyEasy
	case DifficultyMedium:
		return tier == DifficultyEasy || tier == DifficultyMedium
	}
	return true
}
