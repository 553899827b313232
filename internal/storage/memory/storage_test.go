package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernight/internal/model"
	"github.com/mcoot/pokernight/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestSavePlayerCopiesInput() {
	player := storagetest.Player("alice", "Alice", 0)
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, player))

	player.Name = "Mallory"

	retrieved, _ := s.storage.GetPlayer(s.Ctx, "alice")
	s.Equal("Alice", retrieved.Name)
}

func (s *StorageSuite) TestSaveSessionCopiesInput() {
	session := storagetest.Session("s1", 1,
		storagetest.Seat("alice", 100, model.MoneyPtr(10)),
		storagetest.Seat("bob", 100, nil),
	)
	s.Require().NoError(s.storage.SaveSession(s.Ctx, session))

	*session.Players[0].CashOut = 999
	session.Players[1].BuyIn = 1

	retrieved, _ := s.storage.GetSession(s.Ctx, "s1")
	s.Equal(model.Money(10), *retrieved.Players[0].CashOut)
	s.Equal(model.Money(100), retrieved.Players[1].BuyIn)
}

func (s *StorageSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = s.storage.SavePlayer(s.Ctx, storagetest.Player(id, id, i))
			_, _ = s.storage.ListPlayers(s.Ctx)
			_ = s.storage.SavePlayerTotals(s.Ctx, []model.PlayerTotals{{PlayerID: model.PlayerID(id), TotalBuyIn: 1}})
		}(i)
	}
	wg.Wait()

	players, err := s.storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 20)
}
