package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a regular at the home game.
// The totals are derived from PlayerSession rows and only ever written by the stats aggregator.
type Player struct {
	ID             PlayerID
	Name           string
	TotalBuyIn     Money
	TotalCashOut   Money
	SessionsPlayed int
	CreatedAt      time.Time
}

// Profit returns the player's net result across all sessions
func (p *Player) Profit() Money {
	return p.TotalCashOut - p.TotalBuyIn
}

// PlayerTotals holds the aggregate fields recomputed for one player
type PlayerTotals struct {
	PlayerID       PlayerID
	TotalBuyIn     Money
	TotalCashOut   Money
	SessionsPlayed int
}

// Apply copies the totals onto the player
func (t PlayerTotals) Apply(p *Player) {
	p.TotalBuyIn = t.TotalBuyIn
	p.TotalCashOut = t.TotalCashOut
	p.SessionsPlayed = t.SessionsPlayed
}
