package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/dependencies/mocks"
	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage/memory"
	"github.com/mcoot/pokernight/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDGenerator
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDGenerator()
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) setTotals(id model.PlayerID, buyIn, cashOut model.Money) {
	s.Require().NoError(s.storage.SavePlayerTotals(s.ctx, []model.PlayerTotals{
		{PlayerID: id, TotalBuyIn: buyIn, TotalCashOut: cashOut, SessionsPlayed: 1},
	}))
}

func (s *ServiceSuite) seatInSession(sessionID model.SessionID, cashOut *model.Money, ids ...model.PlayerID) {
	session := &model.Session{ID: sessionID, Location: "Kitchen"}
	for _, id := range ids {
		session.Players = append(session.Players, model.PlayerSession{PlayerID: id, BuyIn: 1000, CashOut: cashOut})
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
}

// Create tests

func (s *ServiceSuite) TestCreateSucceeds() {
	s.ids.QueueIDs("p-alice")

	player, err := s.service.Create(s.ctx, "  Alice ")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("p-alice"), player.ID)
	s.Equal("Alice", player.Name)
	s.Equal(model.Money(0), player.TotalBuyIn)
	s.Equal(0, player.SessionsPlayed)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ServiceSuite) TestCreateIsPersisted() {
	player, _ := s.service.Create(s.ctx, "Alice")

	retrieved, err := s.service.Get(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *ServiceSuite) TestCreateRejectsBlankName() {
	_, err := s.service.Create(s.ctx, "   ")
	s.ErrorIs(err, model.ErrInvalidName)

	players, _ := s.service.List(s.ctx, "")
	s.Empty(players)
}

// Get tests

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// List tests

func (s *ServiceSuite) TestListSortsByProfit() {
	alice, _ := s.service.Create(s.ctx, "Alice")
	s.clock.Advance(time.Minute)
	bob, _ := s.service.Create(s.ctx, "Bob")
	s.clock.Advance(time.Minute)
	carol, _ := s.service.Create(s.ctx, "Carol")

	s.setTotals(alice.ID, 10000, 5000)
	s.setTotals(bob.ID, 10000, 20000)

	players, err := s.service.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(bob.ID, players[0].ID)
	s.Equal(carol.ID, players[1].ID)
	s.Equal(alice.ID, players[2].ID)
}

func (s *ServiceSuite) TestListFiltersByName() {
	_, _ = s.service.Create(s.ctx, "Alice")
	_, _ = s.service.Create(s.ctx, "Alicia")
	_, _ = s.service.Create(s.ctx, "Bob")

	players, err := s.service.List(s.ctx, "ALI")
	s.Require().NoError(err)
	s.Len(players, 2)

	players, err = s.service.List(s.ctx, "zed")
	s.Require().NoError(err)
	s.Empty(players)
}

// Delete tests

func (s *ServiceSuite) TestDeleteSucceeds() {
	player, _ := s.service.Create(s.ctx, "Alice")

	s.Require().NoError(s.service.Delete(s.ctx, player.ID))

	_, err := s.service.Get(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	players, _ := s.service.List(s.ctx, "")
	s.Empty(players)
}

func (s *ServiceSuite) TestDeleteNotFound() {
	err := s.service.Delete(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestDeleteRejectsActiveSession() {
	alice, _ := s.service.Create(s.ctx, "Alice")
	bob, _ := s.service.Create(s.ctx, "Bob")
	s.seatInSession("s1", nil, alice.ID, bob.ID)

	err := s.service.Delete(s.ctx, alice.ID)
	s.ErrorIs(err, model.ErrPlayerInActiveSession)

	_, err = s.service.Get(s.ctx, alice.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteKeepsCompletedHistory() {
	alice, _ := s.service.Create(s.ctx, "Alice")
	bob, _ := s.service.Create(s.ctx, "Bob")
	s.seatInSession("s1", model.MoneyPtr(1000), alice.ID, bob.ID)

	s.Require().NoError(s.service.Delete(s.ctx, alice.ID))

	session, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.NotNil(session.GetPlayer(alice.ID))
}

// Names tests

func (s *ServiceSuite) TestNamesOmitsDeletedPlayers() {
	s.ids.QueueIDs("p-alice", "p-bob")
	_, _ = s.service.Create(s.ctx, "Alice")
	bob, _ := s.service.Create(s.ctx, "Bob")
	s.Require().NoError(s.service.Delete(s.ctx, bob.ID))

	names, err := s.service.Names(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[model.PlayerID]string{"p-alice": "Alice"}, names)
}
