package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
	"github.com/mcoot/pokernight/internal/storage/memory"
	"github.com/mcoot/pokernight/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) savePlayer(id string) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:        model.PlayerID(id),
		Name:      id,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func (s *ServiceSuite) getPlayer(id string) *model.Player {
	p, err := s.storage.GetPlayer(s.ctx, model.PlayerID(id))
	s.Require().NoError(err)
	return p
}

// Aggregate tests

func (s *ServiceSuite) TestAggregateEmpty() {
	s.Empty(Aggregate(nil))
}

func (s *ServiceSuite) TestAggregateSumsRows() {
	rows := []model.PlayerSessionRow{
		{SessionID: "s1", PlayerID: "alice", BuyIn: 10000, CashOut: model.MoneyPtr(15000)},
		{SessionID: "s2", PlayerID: "alice", BuyIn: 5000, CashOut: nil},
		{SessionID: "s1", PlayerID: "bob", BuyIn: 10000, CashOut: model.MoneyPtr(5000)},
	}

	totals := Aggregate(rows)

	s.Len(totals, 2)
	s.Equal(model.PlayerTotals{PlayerID: "alice", TotalBuyIn: 15000, TotalCashOut: 15000, SessionsPlayed: 2}, totals["alice"])
	s.Equal(model.PlayerTotals{PlayerID: "bob", TotalBuyIn: 10000, TotalCashOut: 5000, SessionsPlayed: 1}, totals["bob"])
}

func (s *ServiceSuite) TestAggregateCountsDistinctSessions() {
	rows := []model.PlayerSessionRow{
		{SessionID: "s1", PlayerID: "alice", BuyIn: 100},
		{SessionID: "s1", PlayerID: "alice", BuyIn: 200},
	}

	totals := Aggregate(rows)

	s.Equal(1, totals["alice"].SessionsPlayed)
	s.Equal(model.Money(300), totals["alice"].TotalBuyIn)
}

func (s *ServiceSuite) TestAggregateIsOrderIndependent() {
	rows := []model.PlayerSessionRow{
		{SessionID: "s1", PlayerID: "alice", BuyIn: 100, CashOut: model.MoneyPtr(50)},
		{SessionID: "s2", PlayerID: "bob", BuyIn: 300},
		{SessionID: "s3", PlayerID: "alice", BuyIn: 200, CashOut: model.MoneyPtr(400)},
	}
	reversed := []model.PlayerSessionRow{rows[2], rows[1], rows[0]}

	s.Equal(Aggregate(rows), Aggregate(reversed))
}

// Recompute tests

func (s *ServiceSuite) TestRecomputeWritesTotals() {
	s.savePlayer("alice")
	s.savePlayer("bob")
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:       "s1",
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: "alice", BuyIn: 10000, CashOut: model.MoneyPtr(15000)},
			{PlayerID: "bob", BuyIn: 10000, CashOut: model.MoneyPtr(5000)},
		},
	}))

	s.Require().NoError(s.service.Recompute(s.ctx))

	alice := s.getPlayer("alice")
	s.Equal(model.Money(10000), alice.TotalBuyIn)
	s.Equal(model.Money(15000), alice.TotalCashOut)
	s.Equal(1, alice.SessionsPlayed)
	s.Equal(model.Money(5000), alice.Profit())
	s.Equal(model.Money(-5000), s.getPlayer("bob").Profit())
}

func (s *ServiceSuite) TestRecomputeZeroesPlayersWithoutRows() {
	s.savePlayer("alice")
	s.savePlayer("bob")
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:       "s1",
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: "alice", BuyIn: 10000},
			{PlayerID: "bob", BuyIn: 10000},
		},
	}))
	s.Require().NoError(s.service.Recompute(s.ctx))
	s.Equal(model.Money(10000), s.getPlayer("alice").TotalBuyIn)

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "s1"))
	s.Require().NoError(s.service.Recompute(s.ctx))

	alice := s.getPlayer("alice")
	s.Equal(model.Money(0), alice.TotalBuyIn)
	s.Equal(0, alice.SessionsPlayed)
}

func (s *ServiceSuite) TestRecomputeIgnoresOrphanedRows() {
	s.savePlayer("alice")
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:       "s1",
		Location: "Kitchen",
		Players: []model.PlayerSession{
			{PlayerID: "alice", BuyIn: 10000},
			{PlayerID: "ghost", BuyIn: 10000},
		},
	}))

	s.Require().NoError(s.service.Recompute(s.ctx))

	_, err := s.storage.GetPlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(model.Money(10000), s.getPlayer("alice").TotalBuyIn)
}

func (s *ServiceSuite) TestRecomputeIsIdempotent() {
	s.savePlayer("alice")
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		ID:       "s1",
		Location: "Kitchen",
		Players:  []model.PlayerSession{{PlayerID: "alice", BuyIn: 2500, CashOut: model.MoneyPtr(0)}},
	}))

	s.Require().NoError(s.service.Recompute(s.ctx))
	first := s.getPlayer("alice")
	s.Require().NoError(s.service.Recompute(s.ctx))

	s.Equal(first, s.getPlayer("alice"))
}

func (s *ServiceSuite) TestRecomputeWrapsStoreFailure() {
	failing := &failingStorage{Storage: s.storage, err: errors.New("connection reset")}
	logger, logs := testutil.CaptureLogger()
	service := New(failing, logger)

	err := service.Recompute(s.ctx)

	s.ErrorIs(err, model.ErrStatsRecompute)
	s.ErrorIs(err, failing.err)

	entry := logs.Find("stats recompute failed")
	s.Require().NotNil(entry)
	s.Equal("aggregator", entry["component"])
	s.Equal("connection reset", entry["error"])
}

// failingStorage fails every row listing
type failingStorage struct {
	storage.Storage
	err error
}

func (f *failingStorage) ListPlayerSessions(ctx context.Context) ([]model.PlayerSessionRow, error) {
	return nil, f.err
}
