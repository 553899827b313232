package factory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/services/auth"
	"github.com/mcoot/pokernight/internal/services/session"
	"github.com/mcoot/pokernight/internal/storage"
	"github.com/mcoot/pokernight/internal/storage/memory"
	"github.com/mcoot/pokernight/internal/storage/postgres"
	redisstorage "github.com/mcoot/pokernight/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	newStore func(t *testing.T) storage.Storage
	app      *TestApp
	ctx      context.Context
}

func TestIntegrationMemory(t *testing.T) {
	suite.Run(t, &IntegrationSuite{
		newStore: func(t *testing.T) storage.Storage { return memory.New() },
	})
}

func TestIntegrationRedis(t *testing.T) {
	suite.Run(t, &IntegrationSuite{
		newStore: func(t *testing.T) storage.Storage {
			mr := miniredis.RunT(t)
			client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
			return redisstorage.NewWithClient(client, redisstorage.DefaultConfig())
		},
	})
}

func TestIntegrationPostgres(t *testing.T) {
	url := os.Getenv(postgres.TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", postgres.TestDatabaseURLEnv)
	}

	suite.Run(t, &IntegrationSuite{
		newStore: func(t *testing.T) storage.Storage {
			ctx := context.Background()
			pool, err := pgxpool.New(ctx, url)
			if err != nil {
				t.Fatalf("connect: %v", err)
			}
			if err := postgres.Migrate(ctx, pool); err != nil {
				t.Fatalf("migrate: %v", err)
			}
			if _, err := pool.Exec(ctx, `TRUNCATE players, sessions, player_sessions`); err != nil {
				t.Fatalf("truncate: %v", err)
			}
			return postgres.NewWithPool(pool)
		},
	})
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestAppWith(s.newStore(s.T()), auth.DefaultConfig())
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) createPlayer(id, name string) *model.Player {
	s.app.MockIDs.QueueIDs(id)
	p, err := s.app.PlayerService.Create(s.ctx, name)
	s.Require().NoError(err)
	s.app.MockClock.Advance(time.Second)
	return p
}

func (s *IntegrationSuite) getPlayer(id model.PlayerID) *model.Player {
	p, err := s.app.PlayerService.Get(s.ctx, id)
	s.Require().NoError(err)
	return p
}

// Test: A full evening from seating to payout, then the leaderboard
func (s *IntegrationSuite) TestAliceAndBobEvening() {
	alice := s.createPlayer("alice", "Alice")
	bob := s.createPlayer("bob", "Bob")

	// Step 1: Both buy in for 100
	s.app.MockIDs.QueueIDs("friday")
	sess, err := s.app.SessionController.Create(s.ctx, session.CreateParams{
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: alice.ID, BuyIn: 10000},
			{PlayerID: bob.ID, BuyIn: 10000},
		},
	})
	s.Require().NoError(err)
	s.True(sess.IsActive())

	// Step 2: Alice cashes out 150
	_, err = s.app.SessionController.RecordCashOut(s.ctx, sess.ID, alice.ID, 15000)
	s.Require().NoError(err)

	// Step 3: Bob cannot take 100 from a pool with 50 left
	_, err = s.app.SessionController.RecordCashOut(s.ctx, sess.ID, bob.ID, 10000)
	s.ErrorIs(err, model.ErrPoolExceeded)

	// Step 4: Bob takes the remaining 50 and the session completes
	sess, err = s.app.SessionController.RecordCashOut(s.ctx, sess.ID, bob.ID, 5000)
	s.Require().NoError(err)
	s.False(sess.IsActive())

	s.Equal(model.Money(5000), s.getPlayer(alice.ID).Profit())
	s.Equal(model.Money(-5000), s.getPlayer(bob.ID).Profit())

	overview, err := s.app.LeaderboardService.Overview(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Money(20000), overview.MoneyPlayed)
	s.Equal(1, overview.CompletedSessions)
	s.Equal(alice.ID, overview.TopWinner.PlayerID)
	s.Equal(bob.ID, overview.TopLoser.PlayerID)

	players, err := s.app.PlayerService.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(alice.ID, players[0].ID)
}

// Test: Totals follow every session mutation, including deletion
func (s *IntegrationSuite) TestTotalsTrackMutations() {
	alice := s.createPlayer("alice", "Alice")
	bob := s.createPlayer("bob", "Bob")
	carol := s.createPlayer("carol", "Carol")

	first, err := s.app.SessionController.Create(s.ctx, session.CreateParams{
		Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: alice.ID, BuyIn: 5000, CashOut: model.MoneyPtr(7000)},
			{PlayerID: bob.ID, BuyIn: 5000, CashOut: model.MoneyPtr(3000)},
		},
	})
	s.Require().NoError(err)

	second, err := s.app.SessionController.Create(s.ctx, session.CreateParams{
		Date:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		Location: "Garage",
		Players: []model.PlayerSession{
			{PlayerID: alice.ID, BuyIn: 2000},
			{PlayerID: carol.ID, BuyIn: 2000},
		},
	})
	s.Require().NoError(err)

	a := s.getPlayer(alice.ID)
	s.Equal(model.Money(7000), a.TotalBuyIn)
	s.Equal(2, a.SessionsPlayed)

	// Alice is still seated in the Garage game
	s.ErrorIs(s.app.PlayerService.Delete(s.ctx, alice.ID), model.ErrPlayerInActiveSession)

	// Replace Carol with Bob
	_, err = s.app.SessionController.Edit(s.ctx, second.ID, session.EditParams{
		Players: []model.PlayerSession{
			{PlayerID: alice.ID, BuyIn: 2000, CashOut: model.MoneyPtr(1000)},
			{PlayerID: bob.ID, BuyIn: 2000, CashOut: model.MoneyPtr(3000)},
		},
	})
	s.Require().NoError(err)
	s.Equal(0, s.getPlayer(carol.ID).SessionsPlayed)
	s.Equal(model.Money(-1000), s.getPlayer(bob.ID).Profit())

	// Deleting the first session leaves only the second in the totals
	s.Require().NoError(s.app.SessionController.Delete(s.ctx, first.ID))
	a = s.getPlayer(alice.ID)
	s.Equal(model.Money(2000), a.TotalBuyIn)
	s.Equal(model.Money(1000), a.TotalCashOut)
	s.Equal(1, a.SessionsPlayed)

	// Everyone has cashed out, so Alice may now leave; her rows stay behind
	s.Require().NoError(s.app.PlayerService.Delete(s.ctx, alice.ID))
	kept, err := s.app.SessionController.Get(s.ctx, second.ID)
	s.Require().NoError(err)
	s.NotNil(kept.GetPlayer(alice.ID))

	report, err := s.app.LeaderboardService.PlayerReport(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(report.Sessions, 1)
	s.Equal("Garage", report.Sessions[0].Location)
}

// Test: Explicit recompute repairs totals written out of band
func (s *IntegrationSuite) TestRecomputeRepairsTotals() {
	alice := s.createPlayer("alice", "Alice")
	bob := s.createPlayer("bob", "Bob")
	_, err := s.app.SessionController.Create(s.ctx, session.CreateParams{
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: alice.ID, BuyIn: 1000},
			{PlayerID: bob.ID, BuyIn: 1000},
		},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.app.Storage.SavePlayerTotals(s.ctx, []model.PlayerTotals{
		{PlayerID: alice.ID, TotalBuyIn: 999999, SessionsPlayed: 42},
	}))
	s.Require().NoError(s.app.Aggregator.Recompute(s.ctx))

	a := s.getPlayer(alice.ID)
	s.Equal(model.Money(1000), a.TotalBuyIn)
	s.Equal(1, a.SessionsPlayed)
}
