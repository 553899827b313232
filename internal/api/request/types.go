package request

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/pokernight/internal/model"
)

// Amounts are decimal currency units and may be sent as JSON numbers or strings ("12.50").

// LoginRequest is the request body for an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// Seat is one participant in a session request
type Seat struct {
	PlayerID string           `json:"player_id"`
	BuyIn    decimal.Decimal  `json:"buy_in"`
	CashOut  *decimal.Decimal `json:"cash_out,omitempty"`
}

// ToModel converts the seat to cents
func (s Seat) ToModel() (model.PlayerSession, error) {
	if s.BuyIn.IsNegative() {
		return model.PlayerSession{}, model.ErrInvalidBuyIn
	}
	buyIn, err := model.MoneyFromDecimal(s.BuyIn)
	if err != nil {
		return model.PlayerSession{}, err
	}

	ps := model.PlayerSession{
		PlayerID: model.PlayerID(strings.TrimSpace(s.PlayerID)),
		BuyIn:    buyIn,
	}
	if s.CashOut != nil {
		cashOut, err := model.MoneyFromDecimal(*s.CashOut)
		if err != nil {
			return model.PlayerSession{}, err
		}
		ps.CashOut = &cashOut
	}
	return ps, nil
}

// SeatsToModel converts every seat, keeping nil for an absent list
func SeatsToModel(seats []Seat) ([]model.PlayerSession, error) {
	if seats == nil {
		return nil, nil
	}
	players := make([]model.PlayerSession, len(seats))
	for i, s := range seats {
		ps, err := s.ToModel()
		if err != nil {
			return nil, err
		}
		players[i] = ps
	}
	return players, nil
}

// CreateSessionRequest is the request body for recording a session
type CreateSessionRequest struct {
	Date     string `json:"date,omitempty"`
	Location string `json:"location"`
	Players  []Seat `json:"players"`
}

// EditSessionRequest is the request body for editing a session.
// Absent fields are left unchanged; players replaces the whole list.
type EditSessionRequest struct {
	Date     *string `json:"date,omitempty"`
	Location *string `json:"location,omitempty"`
	Players  []Seat  `json:"players,omitempty"`
}

// CashOutRequest is the request body for recording a cash-out
type CashOutRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// ParseDate accepts a calendar date (2024-03-01) or an RFC 3339 timestamp.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
