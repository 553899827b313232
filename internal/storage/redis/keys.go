package redis

import (
	"fmt"

	"github.com/mcoot/pokernight/internal/model"
)

// keys builds Redis keys under a configurable prefix
type keys struct {
	prefix string
}

// player returns the key holding a Player as JSON
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

// players returns the SET of all player IDs
func (k keys) players() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// session returns the key holding a Session (with its PlayerSession rows) as JSON
func (k keys) session(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", k.prefix, id)
}

// sessionsByDate returns the ZSET of session IDs scored by session date (unix millis)
func (k keys) sessionsByDate() string {
	return fmt.Sprintf("%s:idx:sessions_by_date", k.prefix)
}
