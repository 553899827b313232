package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound        = errors.New("player not found")
	ErrInvalidName           = errors.New("player name is required")
	ErrPlayerInActiveSession = errors.New("player is in an active session")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidLocation     = errors.New("location is required")
	ErrInsufficientPlayers = errors.New("at least two players are required for a session")
	ErrInvalidBuyIn        = errors.New("buy-in must be greater than zero")
	ErrDuplicatePlayer     = errors.New("player appears more than once in session")
	ErrNotInSession        = errors.New("player is not in session")
	ErrAlreadyCashedOut    = errors.New("player has already cashed out")

	// Money errors
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPoolExceeded  = errors.New("total cash-out cannot exceed total buy-in for the session")

	// Stats errors
	ErrStatsRecompute = errors.New("player stats recompute failed")
)
