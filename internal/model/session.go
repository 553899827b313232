package model

import "time"

// SessionID uniquely identifies a poker session
type SessionID string

// PlayerSession is one participant's stake in a session.
// CashOut is nil while the player is still at the table.
type PlayerSession struct {
	PlayerID PlayerID
	BuyIn    Money
	CashOut  *Money
}

// HasCashedOut reports whether the cash-out has been recorded
func (ps PlayerSession) HasCashedOut() bool {
	return ps.CashOut != nil
}

// Profit returns cash-out minus buy-in, and false while the player is still playing
func (ps PlayerSession) Profit() (Money, bool) {
	if ps.CashOut == nil {
		return 0, false
	}
	return *ps.CashOut - ps.BuyIn, true
}

// Session is a single game night
type Session struct {
	ID        SessionID
	Date      time.Time
	Location  string
	Players   []PlayerSession
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether any participant has not cashed out yet
func (s *Session) IsActive() bool {
	for _, p := range s.Players {
		if p.CashOut == nil {
			return true
		}
	}
	return false
}

// GetPlayer returns the participant with the given ID, or nil if not found
func (s *Session) GetPlayer(playerID PlayerID) *PlayerSession {
	for i := range s.Players {
		if s.Players[i].PlayerID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// TotalBuyIn returns the size of the pool
func (s *Session) TotalBuyIn() Money {
	var total Money
	for _, p := range s.Players {
		total += p.BuyIn
	}
	return total
}

// TotalCashOut returns the sum of all recorded cash-outs
func (s *Session) TotalCashOut() Money {
	var total Money
	for _, p := range s.Players {
		if p.CashOut != nil {
			total += *p.CashOut
		}
	}
	return total
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.Players = ClonePlayerSessions(s.Players)
	return &c
}

// ClonePlayerSessions deep-copies a participant list, including cash-out pointers
func ClonePlayerSessions(players []PlayerSession) []PlayerSession {
	if players == nil {
		return nil
	}
	out := make([]PlayerSession, len(players))
	for i, p := range players {
		out[i] = p
		if p.CashOut != nil {
			v := *p.CashOut
			out[i].CashOut = &v
		}
	}
	return out
}

// PlayerSessionRow is the flattened join row between a player and a session
type PlayerSessionRow struct {
	SessionID SessionID
	PlayerID  PlayerID
	BuyIn     Money
	CashOut   *Money
}

// Rows flattens the session's participants into join rows
func (s *Session) Rows() []PlayerSessionRow {
	rows := make([]PlayerSessionRow, len(s.Players))
	for i, p := range s.Players {
		rows[i] = PlayerSessionRow{
			SessionID: s.ID,
			PlayerID:  p.PlayerID,
			BuyIn:     p.BuyIn,
			CashOut:   p.CashOut,
		}
	}
	return rows
}

// SessionStatus filters sessions by completion
type SessionStatus string

const (
	SessionStatusAll       SessionStatus = ""
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Matches reports whether the session passes the status filter
func (st SessionStatus) Matches(s *Session) bool {
	switch st {
	case SessionStatusActive:
		return s.IsActive()
	case SessionStatusCompleted:
		return !s.IsActive()
	default:
		return true
	}
}

// MoneyPtr returns a pointer to m, for optional cash-outs
func MoneyPtr(m Money) *Money {
	return &m
}
