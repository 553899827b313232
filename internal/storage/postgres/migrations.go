package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migration is one forward-only schema step
type migration struct {
	version int
	sql     string
}

// player_sessions.player_id carries no foreign key: deleting a player keeps their history.
var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE players (
				id              TEXT PRIMARY KEY,
				name            TEXT NOT NULL CHECK (name <> ''),
				total_buy_in    BIGINT NOT NULL DEFAULT 0,
				total_cash_out  BIGINT NOT NULL DEFAULT 0,
				sessions_played INTEGER NOT NULL DEFAULT 0,
				created_at      TIMESTAMPTZ NOT NULL
			);

			CREATE TABLE sessions (
				id         TEXT PRIMARY KEY,
				date       TIMESTAMPTZ NOT NULL,
				location   TEXT NOT NULL CHECK (location <> ''),
				is_active  BOOLEAN NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);

			CREATE INDEX sessions_date_idx ON sessions (date DESC);

			CREATE TABLE player_sessions (
				session_id TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
				player_id  TEXT NOT NULL,
				seat       INTEGER NOT NULL,
				buy_in     BIGINT NOT NULL CHECK (buy_in > 0),
				cash_out   BIGINT CHECK (cash_out >= 0),
				PRIMARY KEY (session_id, player_id)
			);

			CREATE INDEX player_sessions_player_idx ON player_sessions (player_id);
		`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its version row.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		if err := applyMigration(ctx, pool, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check migration %d: %w", m.version, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return fmt.Errorf("apply migration %d: %w", m.version, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", m.version,
	); err != nil {
		return fmt.Errorf("record migration %d: %w", m.version, err)
	}

	return tx.Commit(ctx)
}
