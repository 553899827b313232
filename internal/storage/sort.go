package storage

import (
	"sort"

	"github.com/mcoot/pokernight/internal/model"
)

// SortSessionsByDate orders sessions most recent first.
// Ties on date fall back to creation time, then ID, so listings are stable.
func SortSessionsByDate(sessions []*model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortPlayersByCreation orders players oldest first, by ID on ties
func SortPlayersByCreation(players []*model.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
}
