package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Storage is a PostgreSQL implementation of the storage interface.
// A session and its player_sessions rows are always written in one transaction.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects a pool, verifies it and brings the schema up to date
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool; the schema must already be migrated
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Close closes the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

const playerColumns = `id, name, total_buy_in, total_cash_out, sessions_played, created_at`

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			total_buy_in = EXCLUDED.total_buy_in,
			total_cash_out = EXCLUDED.total_cash_out,
			sessions_played = EXCLUDED.sessions_played
	`,
		string(player.ID), player.Name, int64(player.TotalBuyIn), int64(player.TotalCashOut),
		player.SessionsPlayed, player.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, string(id))
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var (
		id, name       string
		buyIn, cashOut int64
		sessionsPlayed int
		player         model.Player
	)
	if err := row.Scan(&id, &name, &buyIn, &cashOut, &sessionsPlayed, &player.CreatedAt); err != nil {
		return nil, err
	}
	player.ID = model.PlayerID(id)
	player.Name = name
	player.TotalBuyIn = model.Money(buyIn)
	player.TotalCashOut = model.Money(cashOut)
	player.SessionsPlayed = sessionsPlayed
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

func (s *Storage) SavePlayerTotals(ctx context.Context, totals []model.PlayerTotals) error {
	if len(totals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range totals {
		batch.Queue(`
			UPDATE players
			SET total_buy_in = $2, total_cash_out = $3, sessions_played = $4
			WHERE id = $1
		`, string(t.PlayerID), int64(t.TotalBuyIn), int64(t.TotalCashOut), t.SessionsPlayed)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save player totals: %w", err)
		}
		return nil
	})
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO sessions (id, date, location, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				date = EXCLUDED.date,
				location = EXCLUDED.location,
				is_active = EXCLUDED.is_active,
				updated_at = EXCLUDED.updated_at
		`,
			string(session.ID), session.Date, session.Location, session.IsActive(),
			session.CreatedAt, session.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM player_sessions WHERE session_id = $1`, string(session.ID),
		); err != nil {
			return fmt.Errorf("clear player sessions: %w", err)
		}

		batch := &pgx.Batch{}
		for seat, p := range session.Players {
			batch.Queue(`
				INSERT INTO player_sessions (session_id, player_id, seat, buy_in, cash_out)
				VALUES ($1, $2, $3, $4, $5)
			`, string(session.ID), string(p.PlayerID), seat, int64(p.BuyIn), moneyArg(p.CashOut))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert player sessions: %w", err)
		}
		return nil
	})
}

const sessionColumns = `id, date, location, created_at, updated_at`

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, string(id))
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	rows, err := s.queryPlayerSessions(ctx,
		`WHERE session_id = $1 ORDER BY seat`, string(id))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		session.Players = append(session.Players, playerSessionFromRow(r))
	}
	return session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY date DESC, created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*model.Session{}
	byID := make(map[model.SessionID]*model.Session)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
		byID[session.ID] = session
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	psRows, err := s.queryPlayerSessions(ctx, `ORDER BY session_id, seat`)
	if err != nil {
		return nil, err
	}
	for _, r := range psRows {
		if session, ok := byID[r.SessionID]; ok {
			session.Players = append(session.Players, playerSessionFromRow(r))
		}
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		id      string
		session model.Session
	)
	if err := row.Scan(&id, &session.Date, &session.Location, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	session.ID = model.SessionID(id)
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	// player_sessions rows go with it via ON DELETE CASCADE
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PlayerSession operations

func (s *Storage) ListPlayerSessions(ctx context.Context) ([]model.PlayerSessionRow, error) {
	return s.queryPlayerSessions(ctx, ``)
}

func (s *Storage) queryPlayerSessions(ctx context.Context, clause string, args ...any) ([]model.PlayerSessionRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, player_id, buy_in, cash_out FROM player_sessions `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query player sessions: %w", err)
	}
	defer rows.Close()

	result := []model.PlayerSessionRow{}
	for rows.Next() {
		var (
			sessionID, playerID string
			buyIn               int64
			cashOut             *int64
		)
		if err := rows.Scan(&sessionID, &playerID, &buyIn, &cashOut); err != nil {
			return nil, fmt.Errorf("scan player session: %w", err)
		}
		r := model.PlayerSessionRow{
			SessionID: model.SessionID(sessionID),
			PlayerID:  model.PlayerID(playerID),
			BuyIn:     model.Money(buyIn),
		}
		if cashOut != nil {
			r.CashOut = model.MoneyPtr(model.Money(*cashOut))
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func playerSessionFromRow(r model.PlayerSessionRow) model.PlayerSession {
	return model.PlayerSession{
		PlayerID: r.PlayerID,
		BuyIn:    r.BuyIn,
		CashOut:  r.CashOut,
	}
}

// moneyArg converts an optional amount into a nullable query argument
func moneyArg(m *model.Money) *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}
