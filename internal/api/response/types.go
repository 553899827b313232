package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/auth"
)

// Amounts are rendered as decimal strings in currency units, e.g. "12.5"

func optionalUnits(m *model.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Units()
	return &d
}

// Status is a bare acknowledgement
type Status struct {
	Status string `json:"status"`
}

// Login is the response for a successful admin login
type Login struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginFromSession converts an auth.Session
func LoginFromSession(s *auth.Session) Login {
	return Login{Token: s.Token, ExpiresAt: s.ExpiresAt}
}

// Player represents a player in API responses
type Player struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TotalBuyIn     decimal.Decimal `json:"total_buy_in"`
	TotalCashOut   decimal.Decimal `json:"total_cash_out"`
	Profit         decimal.Decimal `json:"profit"`
	SessionsPlayed int             `json:"sessions_played"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:             string(p.ID),
		Name:           p.Name,
		TotalBuyIn:     p.TotalBuyIn.Units(),
		TotalCashOut:   p.TotalCashOut.Units(),
		Profit:         p.Profit().Units(),
		SessionsPlayed: p.SessionsPlayed,
		CreatedAt:      p.CreatedAt,
	}
}

// PlayersFromModel converts a list of players
func PlayersFromModel(players []*model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// Participant is one seat in a session
type Participant struct {
	PlayerID string           `json:"player_id"`
	Name     string           `json:"name"` // empty once the player is deleted
	BuyIn    decimal.Decimal  `json:"buy_in"`
	CashOut  *decimal.Decimal `json:"cash_out"`
	Profit   *decimal.Decimal `json:"profit"`
}

// Session represents a session in API responses
type Session struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Location     string          `json:"location"`
	IsActive     bool            `json:"is_active"`
	Players      []Participant   `json:"players"`
	TotalBuyIn   decimal.Decimal `json:"total_buy_in"`
	TotalCashOut decimal.Decimal `json:"total_cash_out"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SessionFromModel converts model.Session, naming participants from names
func SessionFromModel(s *model.Session, names map[model.PlayerID]string) Session {
	players := make([]Participant, len(s.Players))
	for i, p := range s.Players {
		players[i] = Participant{
			PlayerID: string(p.PlayerID),
			Name:     names[p.PlayerID],
			BuyIn:    p.BuyIn.Units(),
			CashOut:  optionalUnits(p.CashOut),
		}
		if profit, ok := p.Profit(); ok {
			players[i].Profit = optionalUnits(&profit)
		}
	}

	return Session{
		ID:           string(s.ID),
		Date:         s.Date,
		Location:     s.Location,
		IsActive:     s.IsActive(),
		Players:      players,
		TotalBuyIn:   s.TotalBuyIn().Units(),
		TotalCashOut: s.TotalCashOut().Units(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SessionsFromModel converts a list of sessions
func SessionsFromModel(sessions []*model.Session, names map[model.PlayerID]string) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = SessionFromModel(s, names)
	}
	return out
}

// Standing is one leaderboard line
type Standing struct {
	PlayerID string          `json:"player_id"`
	Name     string          `json:"name"`
	Profit   decimal.Decimal `json:"profit"`
}

func standingFromModel(s model.Standing) Standing {
	return Standing{PlayerID: string(s.PlayerID), Name: s.Name, Profit: s.Profit.Units()}
}

func standingPtr(s *model.Standing) *Standing {
	if s == nil {
		return nil
	}
	out := standingFromModel(*s)
	return &out
}

// Leaderboard lists winners and losers
type Leaderboard struct {
	Winners []Standing `json:"winners"`
	Losers  []Standing `json:"losers"`
}

// LeaderboardFromModel converts model.Standings
func LeaderboardFromModel(s *model.Standings) Leaderboard {
	lb := Leaderboard{
		Winners: make([]Standing, len(s.Winners)),
		Losers:  make([]Standing, len(s.Losers)),
	}
	for i, w := range s.Winners {
		lb.Winners[i] = standingFromModel(w)
	}
	for i, l := range s.Losers {
		lb.Losers[i] = standingFromModel(l)
	}
	return lb
}

// SessionResult is one session in a player report
type SessionResult struct {
	SessionID string           `json:"session_id"`
	Date      time.Time        `json:"date"`
	Location  string           `json:"location"`
	IsActive  bool             `json:"is_active"`
	BuyIn     decimal.Decimal  `json:"buy_in"`
	CashOut   *decimal.Decimal `json:"cash_out"`
	Profit    *decimal.Decimal `json:"profit"`
}

// PlayerReport is a player's history and derived statistics
type PlayerReport struct {
	Player       Player          `json:"player"`
	Sessions     []SessionResult `json:"sessions"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	WinRate      float64         `json:"win_rate"`
	AverageBuyIn decimal.Decimal `json:"average_buy_in"`
	BiggestWin   decimal.Decimal `json:"biggest_win"`
	BiggestLoss  decimal.Decimal `json:"biggest_loss"`
}

// PlayerReportFromModel converts model.PlayerReport
func PlayerReportFromModel(r *model.PlayerReport) PlayerReport {
	sessions := make([]SessionResult, len(r.Sessions))
	for i, s := range r.Sessions {
		sessions[i] = SessionResult{
			SessionID: string(s.SessionID),
			Date:      s.Date,
			Location:  s.Location,
			IsActive:  s.IsActive,
			BuyIn:     s.BuyIn.Units(),
			CashOut:   optionalUnits(s.CashOut),
			Profit:    optionalUnits(s.Profit),
		}
	}
	return PlayerReport{
		Player:       PlayerFromModel(&r.Player),
		Sessions:     sessions,
		TotalProfit:  r.TotalProfit.Units(),
		WinRate:      r.WinRate,
		AverageBuyIn: r.AverageBuyIn.Units(),
		BiggestWin:   r.BiggestWin.Units(),
		BiggestLoss:  r.BiggestLoss.Units(),
	}
}

// Overview is the global summary
type Overview struct {
	TotalPlayers      int             `json:"total_players"`
	TotalSessions     int             `json:"total_sessions"`
	ActiveSessions    int             `json:"active_sessions"`
	CompletedSessions int             `json:"completed_sessions"`
	MoneyPlayed       decimal.Decimal `json:"money_played"`
	TopWinner         *Standing       `json:"top_winner"`
	TopLoser          *Standing       `json:"top_loser"`
}

// OverviewFromModel converts model.Overview
func OverviewFromModel(o *model.Overview) Overview {
	return Overview{
		TotalPlayers:      o.TotalPlayers,
		TotalSessions:     o.TotalSessions,
		ActiveSessions:    o.ActiveSessions,
		CompletedSessions: o.CompletedSessions,
		MoneyPlayed:       o.MoneyPlayed.Units(),
		TopWinner:         standingPtr(o.TopWinner),
		TopLoser:          standingPtr(o.TopLoser),
	}
}
