// Package leaderboard derives read-only views from the stored players and sessions.
package leaderboard

import (
	"context"
	"sort"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Service computes standings and reports
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// Standings splits players into winners and losers.
// A positive limit caps each list.
func (s *Service) Standings(ctx context.Context, limit int) (*model.Standings, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	standings := &model.Standings{
		Winners: []model.Standing{},
		Losers:  []model.Standing{},
	}
	for _, p := range players {
		switch profit := p.Profit(); {
		case profit > 0:
			standings.Winners = append(standings.Winners, standingOf(p))
		case profit < 0:
			standings.Losers = append(standings.Losers, standingOf(p))
		}
	}

	sort.SliceStable(standings.Winners, func(i, j int) bool {
		return standings.Winners[i].Profit > standings.Winners[j].Profit
	})
	sort.SliceStable(standings.Losers, func(i, j int) bool {
		return standings.Losers[i].Profit < standings.Losers[j].Profit
	})

	if limit > 0 {
		standings.Winners = truncate(standings.Winners, limit)
		standings.Losers = truncate(standings.Losers, limit)
	}
	return standings, nil
}

// PlayerReport builds the session history and derived statistics for one player
func (s *Service) PlayerReport(ctx context.Context, id model.PlayerID) (*model.PlayerReport, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.PlayerReport{
		Player:      *player,
		Sessions:    []model.PlayerSessionResult{},
		TotalProfit: player.Profit(),
	}

	var completed, wins int
	for _, session := range sessions {
		ps := session.GetPlayer(id)
		if ps == nil {
			continue
		}

		result := model.PlayerSessionResult{
			SessionID: session.ID,
			Date:      session.Date,
			Location:  session.Location,
			IsActive:  session.IsActive(),
			BuyIn:     ps.BuyIn,
			CashOut:   ps.CashOut,
		}
		if profit, ok := ps.Profit(); ok {
			result.Profit = model.MoneyPtr(profit)
			completed++
			if profit > 0 {
				wins++
			}
			report.BiggestWin = max(report.BiggestWin, profit)
			report.BiggestLoss = min(report.BiggestLoss, profit)
		}
		report.Sessions = append(report.Sessions, result)
	}

	if completed > 0 {
		report.WinRate = float64(wins) / float64(completed)
	}
	if player.SessionsPlayed > 0 {
		report.AverageBuyIn = player.TotalBuyIn / model.Money(player.SessionsPlayed)
	}
	return report, nil
}

// Overview summarizes every player and session
func (s *Service) Overview(ctx context.Context) (*model.Overview, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	overview := &model.Overview{
		TotalPlayers:  len(players),
		TotalSessions: len(sessions),
	}
	for _, session := range sessions {
		if session.IsActive() {
			overview.ActiveSessions++
		} else {
			overview.CompletedSessions++
		}
		overview.MoneyPlayed += session.TotalBuyIn()
	}

	if len(players) == 0 {
		return overview, nil
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Profit() > players[j].Profit()
	})
	top := standingOf(players[0])
	overview.TopWinner = &top
	if len(players) > 1 {
		bottom := standingOf(players[len(players)-1])
		overview.TopLoser = &bottom
	}
	return overview, nil
}

func standingOf(p *model.Player) model.Standing {
	return model.Standing{PlayerID: p.ID, Name: p.Name, Profit: p.Profit()}
}

func truncate(standings []model.Standing, limit int) []model.Standing {
	if len(standings) > limit {
		return standings[:limit]
	}
	return standings
}
