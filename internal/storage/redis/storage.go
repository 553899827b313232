package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each session is stored as one JSON document together with its PlayerSession rows,
// so replacing the rows of a session is a single SET.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.player(player.ID), data, 0)
	pipe.SAdd(ctx, s.keys.players(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, s.keys.players()).Result()
	if err != nil {
		return nil, err
	}
	playerIDs := make([]model.PlayerID, len(ids))
	for i, id := range ids {
		playerIDs[i] = model.PlayerID(id)
	}

	players, err := s.getPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	storage.SortPlayersByCreation(players)
	return players, nil
}

// getPlayers fetches players with one MGET, skipping IDs whose record is gone
func (s *Storage) getPlayers(ctx context.Context, ids []model.PlayerID) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}
	playerKeys := make([]string, len(ids))
	for i, id := range ids {
		playerKeys[i] = s.keys.player(id)
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(str), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.player(id))
	pipe.SRem(ctx, s.keys.players(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SavePlayerTotals(ctx context.Context, totals []model.PlayerTotals) error {
	if len(totals) == 0 {
		return nil
	}
	ids := make([]model.PlayerID, len(totals))
	byID := make(map[model.PlayerID]model.PlayerTotals, len(totals))
	for i, t := range totals {
		ids[i] = t.PlayerID
		byID[t.PlayerID] = t
	}

	players, err := s.getPlayers(ctx, ids)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, player := range players {
		byID[player.ID].Apply(player)
		data, err := json.Marshal(player)
		if err != nil {
			return err
		}
		// XX: a player deleted since the read must stay deleted
		pipe.SetXX(ctx, s.keys.player(player.ID), data, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.session(session.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.sessionsByDate(), redis.Z{
		Score:  float64(session.Date.UnixMilli()),
		Member: string(session.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.keys.session(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	ids, err := s.client.ZRevRange(ctx, s.keys.sessionsByDate(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Session{}, nil
	}

	sessionKeys := make([]string, len(ids))
	for i, id := range ids {
		sessionKeys[i] = s.keys.session(model.SessionID(id))
	}

	values, err := s.client.MGet(ctx, sessionKeys...).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.Session, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Index entry without a document
		}
		var session model.Session
		if err := json.Unmarshal([]byte(str), &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	storage.SortSessionsByDate(sessions)
	return sessions, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.session(id))
	pipe.ZRem(ctx, s.keys.sessionsByDate(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// PlayerSession operations

func (s *Storage) ListPlayerSessions(ctx context.Context) ([]model.PlayerSessionRow, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	var rows []model.PlayerSessionRow
	for _, session := range sessions {
		rows = append(rows, session.Rows()...)
	}
	return rows, nil
}
