// Package aggregator rebuilds the per-player totals from the PlayerSession rows.
//
// Totals are a materialized view. Every recompute re-derives them in full from the current rows.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Aggregate folds PlayerSession rows into totals per player.
// Null cash-outs count as zero; sessions are counted once per player however many rows repeat them.
func Aggregate(rows []model.PlayerSessionRow) map[model.PlayerID]model.PlayerTotals {
	totals := make(map[model.PlayerID]model.PlayerTotals)
	seen := make(map[model.PlayerID]map[model.SessionID]struct{})

	for _, r := range rows {
		t := totals[r.PlayerID]
		t.PlayerID = r.PlayerID
		t.TotalBuyIn += r.BuyIn
		if r.CashOut != nil {
			t.TotalCashOut += *r.CashOut
		}

		sessions, ok := seen[r.PlayerID]
		if !ok {
			sessions = make(map[model.SessionID]struct{})
			seen[r.PlayerID] = sessions
		}
		if _, dup := sessions[r.SessionID]; !dup {
			sessions[r.SessionID] = struct{}{}
			t.SessionsPlayed++
		}

		totals[r.PlayerID] = t
	}

	return totals
}

// Service writes aggregated totals back to the player records
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new aggregator Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "aggregator")),
	}
}

// Recompute re-derives totals for every existing player.
// Players without any rows are reset to zero.
func (s *Service) Recompute(ctx context.Context) error {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return s.fail("list players", err)
	}
	rows, err := s.storage.ListPlayerSessions(ctx)
	if err != nil {
		return s.fail("list player sessions", err)
	}

	aggregated := Aggregate(rows)

	totals := make([]model.PlayerTotals, 0, len(players))
	for _, p := range players {
		t, ok := aggregated[p.ID]
		if !ok {
			t = model.PlayerTotals{PlayerID: p.ID}
		}
		totals = append(totals, t)
	}

	if err := s.storage.SavePlayerTotals(ctx, totals); err != nil {
		return s.fail("save player totals", err)
	}

	s.logger.Debug("player stats recomputed",
		slog.Int("player_count", len(players)),
		slog.Int("row_count", len(rows)),
	)
	return nil
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error("stats recompute failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s: %w", model.ErrStatsRecompute, op, err)
}
