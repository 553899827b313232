package storage

import (
	"context"

	"github.com/mcoot/pokernight/internal/model"
)

// Storage defines the interface for data persistence.
// Lookups of missing records return model.ErrPlayerNotFound or model.ErrSessionNotFound.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	// SavePlayerTotals overwrites the aggregate fields of existing players.
	// Totals for players that no longer exist are ignored.
	SavePlayerTotals(ctx context.Context, totals []model.PlayerTotals) error

	// Session operations
	// SaveSession upserts the session and replaces all of its PlayerSession rows.
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	// ListSessions returns all sessions, most recent date first.
	ListSessions(ctx context.Context) ([]*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// PlayerSession operations
	ListPlayerSessions(ctx context.Context) ([]model.PlayerSessionRow, error)

	// Close releases any connections held by the backend
	Close() error
}
