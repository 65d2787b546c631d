package domain

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or expired session identifiers.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidTransition is returned when an operation is not allowed in the session's current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrCatalogExhausted signals that no unused player is left. It ends the session normally.
	ErrCatalogExhausted = errors.New("player catalog exhausted")
	// ErrStoreUnavailable wraps failures of the underlying persistence adapter.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownMode is returned when a mode name cannot be parsed.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrUnknownDifficulty is returned when a difficulty name cannot be parsed.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrDisplayNameRequired is returned when practice play or a leaderboard write has no name.
	ErrDisplayNameRequired = errors.New("display name required")
	// ErrUnrankedMode is returned when a practice-mode result is submitted to the leaderboard.
	ErrUnrankedMode = errors.New("mode is not ranked")
)
