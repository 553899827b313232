// Package storagetest holds the behaviour every storage backend must share.
// Backend test suites embed Suite and set Store in their SetupTest.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage"
)

// Suite runs the storage contract against Store
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Player builds a player created the given number of minutes after a fixed base time
func Player(id, name string, minute int) *model.Player {
	return &model.Player{
		ID:        model.PlayerID(id),
		Name:      name,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

// Session builds a session dated the given day of January 2024
func Session(id string, day int, players ...model.PlayerSession) *model.Session {
	date := time.Date(2024, 1, day, 19, 0, 0, 0, time.UTC)
	return &model.Session{
		ID:        model.SessionID(id),
		Date:      date,
		Location:  "Kitchen",
		Players:   players,
		CreatedAt: date,
		UpdatedAt: date,
	}
}

// Seat builds a participant entry
func Seat(playerID string, buyIn model.Money, cashOut *model.Money) model.PlayerSession {
	return model.PlayerSession{PlayerID: model.PlayerID(playerID), BuyIn: buyIn, CashOut: cashOut}
}

func (s *Suite) savePlayers(players ...*model.Player) {
	for _, p := range players {
		s.Require().NoError(s.Store.SavePlayer(s.Ctx, p))
	}
}

func (s *Suite) saveSessions(sessions ...*model.Session) {
	for _, session := range sessions {
		s.Require().NoError(s.Store.SaveSession(s.Ctx, session))
	}
}

func (s *Suite) sessionIDs(sessions []*model.Session) []model.SessionID {
	ids := make([]model.SessionID, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}
	return ids
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := Player("alice", "Alice", 0)
	player.TotalBuyIn = 1234
	player.TotalCashOut = 99
	player.SessionsPlayed = 3
	s.savePlayers(player)

	retrieved, err := s.Store.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("Alice", retrieved.Name)
	s.Equal(model.Money(1234), retrieved.TotalBuyIn)
	s.Equal(model.Money(99), retrieved.TotalCashOut)
	s.Equal(3, retrieved.SessionsPlayed)
	s.WithinDuration(player.CreatedAt, retrieved.CreatedAt, 0)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerReturnsCopy() {
	s.savePlayers(Player("alice", "Alice", 0))

	retrieved, _ := s.Store.GetPlayer(s.Ctx, "alice")
	retrieved.Name = "Mallory"

	again, err := s.Store.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice", again.Name)
}

func (s *Suite) TestListPlayersByCreation() {
	s.savePlayers(
		Player("carol", "Carol", 2),
		Player("alice", "Alice", 0),
		Player("bob", "Bob", 1),
	)

	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("alice"), players[0].ID)
	s.Equal(model.PlayerID("bob"), players[1].ID)
	s.Equal(model.PlayerID("carol"), players[2].ID)
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestDeletePlayer() {
	s.savePlayers(Player("alice", "Alice", 0), Player("bob", "Bob", 1))

	s.Require().NoError(s.Store.DeletePlayer(s.Ctx, "alice"))

	_, err := s.Store.GetPlayer(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	players, _ := s.Store.ListPlayers(s.Ctx)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("bob"), players[0].ID)
}

func (s *Suite) TestDeletePlayerMissingIsNoop() {
	s.NoError(s.Store.DeletePlayer(s.Ctx, "nonexistent"))
}

func (s *Suite) TestSavePlayerTotals() {
	s.savePlayers(Player("alice", "Alice", 0), Player("bob", "Bob", 1))

	err := s.Store.SavePlayerTotals(s.Ctx, []model.PlayerTotals{
		{PlayerID: "alice", TotalBuyIn: 10000, TotalCashOut: 15000, SessionsPlayed: 1},
		{PlayerID: "ghost", TotalBuyIn: 500, SessionsPlayed: 1},
	})
	s.Require().NoError(err)

	alice, _ := s.Store.GetPlayer(s.Ctx, "alice")
	s.Equal(model.Money(10000), alice.TotalBuyIn)
	s.Equal(model.Money(15000), alice.TotalCashOut)
	s.Equal(1, alice.SessionsPlayed)
	s.Equal("Alice", alice.Name)

	bob, _ := s.Store.GetPlayer(s.Ctx, "bob")
	s.Equal(model.Money(0), bob.TotalBuyIn)

	_, err = s.Store.GetPlayer(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *Suite) TestSaveAndGetSession() {
	s.savePlayers(Player("alice", "Alice", 0), Player("bob", "Bob", 1))
	session := Session("s1", 5,
		Seat("bob", 10000, model.MoneyPtr(0)),
		Seat("alice", 2550, nil),
	)
	s.saveSessions(session)

	retrieved, err := s.Store.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal("Kitchen", retrieved.Location)
	s.WithinDuration(session.Date, retrieved.Date, 0)
	s.Require().Len(retrieved.Players, 2)
	s.Equal(model.PlayerID("bob"), retrieved.Players[0].PlayerID)
	s.Equal(model.MoneyPtr(0), retrieved.Players[0].CashOut)
	s.Equal(model.Money(2550), retrieved.Players[1].BuyIn)
	s.Nil(retrieved.Players[1].CashOut)
	s.True(retrieved.IsActive())
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Store.GetSession(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestSaveSessionReplacesRows() {
	s.saveSessions(Session("s1", 5, Seat("alice", 100, nil), Seat("bob", 100, nil)))

	updated := Session("s1", 6, Seat("alice", 100, model.MoneyPtr(50)), Seat("carol", 100, model.MoneyPtr(150)))
	updated.Location = "Den"
	s.saveSessions(updated)

	retrieved, err := s.Store.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal("Den", retrieved.Location)
	s.Nil(retrieved.GetPlayer("bob"))
	s.NotNil(retrieved.GetPlayer("carol"))
	s.False(retrieved.IsActive())

	rows, _ := s.Store.ListPlayerSessions(s.Ctx)
	s.Len(rows, 2)
	sessions, _ := s.Store.ListSessions(s.Ctx)
	s.Len(sessions, 1)
}

func (s *Suite) TestGetSessionReturnsCopy() {
	s.saveSessions(Session("s1", 5, Seat("alice", 100, nil), Seat("bob", 100, nil)))

	retrieved, _ := s.Store.GetSession(s.Ctx, "s1")
	retrieved.Players[0].CashOut = model.MoneyPtr(100)

	again, _ := s.Store.GetSession(s.Ctx, "s1")
	s.Nil(again.Players[0].CashOut)
}

func (s *Suite) TestListSessionsByDateDescending() {
	s.saveSessions(
		Session("s-mid", 10, Seat("alice", 100, nil), Seat("bob", 100, nil)),
		Session("s-old", 3, Seat("alice", 100, nil), Seat("bob", 100, nil)),
		Session("s-new", 20, Seat("alice", 100, nil), Seat("bob", 100, nil)),
	)

	sessions, err := s.Store.ListSessions(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.SessionID{"s-new", "s-mid", "s-old"}, s.sessionIDs(sessions))
	s.Len(sessions[0].Players, 2)
}

func (s *Suite) TestListSessionsEmpty() {
	sessions, err := s.Store.ListSessions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *Suite) TestDeleteSession() {
	s.saveSessions(
		Session("s1", 1, Seat("alice", 100, nil), Seat("bob", 100, nil)),
		Session("s2", 2, Seat("alice", 300, nil), Seat("bob", 300, nil)),
	)

	s.Require().NoError(s.Store.DeleteSession(s.Ctx, "s1"))

	_, err := s.Store.GetSession(s.Ctx, "s1")
	s.ErrorIs(err, model.ErrSessionNotFound)
	sessions, _ := s.Store.ListSessions(s.Ctx)
	s.Equal([]model.SessionID{"s2"}, s.sessionIDs(sessions))

	rows, _ := s.Store.ListPlayerSessions(s.Ctx)
	s.Len(rows, 2)
	for _, r := range rows {
		s.Equal(model.SessionID("s2"), r.SessionID)
	}
}

// PlayerSession tests

func (s *Suite) TestListPlayerSessions() {
	s.saveSessions(
		Session("s1", 1, Seat("alice", 100, model.MoneyPtr(150)), Seat("bob", 100, model.MoneyPtr(50))),
		Session("s2", 2, Seat("alice", 200, nil), Seat("carol", 200, nil)),
	)

	rows, err := s.Store.ListPlayerSessions(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.PlayerSessionRow{
		{SessionID: "s1", PlayerID: "alice", BuyIn: 100, CashOut: model.MoneyPtr(150)},
		{SessionID: "s1", PlayerID: "bob", BuyIn: 100, CashOut: model.MoneyPtr(50)},
		{SessionID: "s2", PlayerID: "alice", BuyIn: 200},
		{SessionID: "s2", PlayerID: "carol", BuyIn: 200},
	}, rows)
}

func (s *Suite) TestRowsSurvivePlayerDeletion() {
	s.savePlayers(Player("alice", "Alice", 0), Player("bob", "Bob", 1))
	s.saveSessions(Session("s1", 1, Seat("alice", 100, model.MoneyPtr(100)), Seat("bob", 100, model.MoneyPtr(100))))

	s.Require().NoError(s.Store.DeletePlayer(s.Ctx, "alice"))

	session, err := s.Store.GetSession(s.Ctx, "s1")
	s.Require().NoError(err)
	s.NotNil(session.GetPlayer("alice"))
	rows, _ := s.Store.ListPlayerSessions(s.Ctx)
	s.Len(rows, 2)
}
