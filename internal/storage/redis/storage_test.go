package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeyLayout() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, storagetest.Player("alice", "Alice", 0)))
	s.Require().NoError(s.storage.SaveSession(s.Ctx, storagetest.Session("s1", 1,
		storagetest.Seat("alice", 100, nil),
		storagetest.Seat("bob", 100, nil),
	)))

	s.True(s.mini.Exists("poker:player:alice"))
	s.True(s.mini.Exists("poker:session:s1"))

	members, err := s.mini.Members("poker:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, members)

	sessions, err := s.mini.ZMembers("poker:idx:sessions_by_date")
	s.Require().NoError(err)
	s.Equal([]string{"s1"}, sessions)
}

func (s *StorageSuite) TestKeyPrefix() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "friday"
	other := NewWithClient(client, cfg)
	defer func() { _ = other.Close() }()

	s.Require().NoError(other.SavePlayer(s.Ctx, storagetest.Player("alice", "Alice", 0)))

	s.True(s.mini.Exists("friday:player:alice"))
	players, err := s.storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestDeleteRemovesIndexEntries() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, storagetest.Player("alice", "Alice", 0)))
	s.Require().NoError(s.storage.SaveSession(s.Ctx, storagetest.Session("s1", 1,
		storagetest.Seat("alice", 100, nil),
		storagetest.Seat("bob", 100, nil),
	)))

	s.Require().NoError(s.storage.DeletePlayer(s.Ctx, "alice"))
	s.Require().NoError(s.storage.DeleteSession(s.Ctx, "s1"))

	s.False(s.mini.Exists("poker:player:alice"))
	s.False(s.mini.Exists("poker:session:s1"))
	s.False(s.mini.Exists("poker:idx:players"))
	s.False(s.mini.Exists("poker:idx:sessions_by_date"))
}

func (s *StorageSuite) TestListSkipsDanglingIndexEntries() {
	s.Require().NoError(s.storage.SaveSession(s.Ctx, storagetest.Session("s1", 1,
		storagetest.Seat("alice", 100, nil),
		storagetest.Seat("bob", 100, nil),
	)))
	s.mini.Del("poker:session:s1")

	sessions, err := s.storage.ListSessions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(sessions)
}

// deleteBeforeExec drops a key just before each pipeline runs, like a concurrent writer would
type deleteBeforeExec struct {
	mini *miniredis.Miniredis
	key  string
}

func (h deleteBeforeExec) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h deleteBeforeExec) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h deleteBeforeExec) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.mini.Del(h.key)
		return next(ctx, cmds)
	}
}

func (s *StorageSuite) TestSavePlayerTotalsDoesNotResurrectDeletedPlayer() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, storagetest.Player("alice", "Alice", 0)))

	s.storage.client.AddHook(deleteBeforeExec{mini: s.mini, key: "poker:player:alice"})

	s.Require().NoError(s.storage.SavePlayerTotals(s.Ctx, []model.PlayerTotals{
		{PlayerID: "alice", TotalBuyIn: 100, TotalCashOut: 150, SessionsPlayed: 1},
	}))

	s.False(s.mini.Exists("poker:player:alice"))
	_, err := s.storage.GetPlayer(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
