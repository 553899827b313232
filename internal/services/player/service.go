package player

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcoot/pokernight/internal/dependencies/clock"
	"github.com/mcoot/pokernight/internal/dependencies/idgen"
	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Service manages the player registry
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Create registers a new player with zeroed totals
func (s *Service) Create(ctx context.Context, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	player := &model.Player{
		ID:        model.PlayerID(s.ids.NewID()),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		s.logger.Error("failed to save player",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)
	return player, nil
}

// Get retrieves a player by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// List returns players ordered by profit, best first.
// A non-empty query keeps only players whose name contains it, ignoring case.
func (s *Service) List(ctx context.Context, query string) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		filtered := players[:0]
		for _, p := range players {
			if strings.Contains(strings.ToLower(p.Name), query) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	// Stable over creation order, so equal profits keep the oldest player first
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Profit() > players[j].Profit()
	})
	return players, nil
}

// Delete removes a player who is not seated in an active session.
// Their historical PlayerSession rows are left in place.
func (s *Service) Delete(ctx context.Context, id model.PlayerID) error {
	if _, err := s.storage.GetPlayer(ctx, id); err != nil {
		return err
	}

	rows, err := s.storage.ListPlayerSessions(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.PlayerID == id && r.CashOut == nil {
			return model.ErrPlayerInActiveSession
		}
	}

	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		s.logger.Error("failed to delete player",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("player deleted", slog.String("player_id", string(id)))
	return nil
}

// Names maps every existing player ID to its name.
// Participants missing from the map have been deleted.
func (s *Service) Names(ctx context.Context) (map[model.PlayerID]string, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[model.PlayerID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}
