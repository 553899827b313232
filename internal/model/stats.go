package model

import "time"

// Standing is a player's position on the leaderboard
type Standing struct {
	PlayerID PlayerID
	Name     string
	Profit   Money
}

// Standings partitions players into winners and losers
type Standings struct {
	Winners []Standing // profit > 0, best first
	Losers  []Standing // profit < 0, worst first
}

// PlayerSessionResult is one line of a player's session history
type PlayerSessionResult struct {
	SessionID SessionID
	Date      time.Time
	Location  string
	IsActive  bool
	BuyIn     Money
	CashOut   *Money
	Profit    *Money // nil until cashed out
}

// PlayerReport is the derived statistics for one player
type PlayerReport struct {
	Player       Player
	Sessions     []PlayerSessionResult
	TotalProfit  Money
	WinRate      float64
	AverageBuyIn Money
	BiggestWin   Money
	BiggestLoss  Money
}

// Overview is the global summary across all players and sessions
type Overview struct {
	TotalPlayers      int
	TotalSessions     int
	ActiveSessions    int
	CompletedSessions int
	MoneyPlayed       Money
	TopWinner         *Standing
	TopLoser          *Standing
}
