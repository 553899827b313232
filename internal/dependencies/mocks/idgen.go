package mocks

import (
	"fmt"

	"github.com/mcoot/pokernight/internal/dependencies/idgen"
)

// MockIDGenerator hands out queued IDs, then falls back to "id-N"
type MockIDGenerator struct {
	Queue []string
	next  int
	count int
}

var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a generator preloaded with the given IDs
func NewMockIDGenerator(ids ...string) *MockIDGenerator {
	return &MockIDGenerator{Queue: ids}
}

// NewID returns the next queued ID, or a sequential one once the queue is empty
func (g *MockIDGenerator) NewID() string {
	g.count++
	if g.next < len(g.Queue) {
		id := g.Queue[g.next]
		g.next++
		return id
	}
	return fmt.Sprintf("id-%d", g.count)
}

// QueueIDs appends IDs to be returned by NewID
func (g *MockIDGenerator) QueueIDs(ids ...string) {
	g.Queue = append(g.Queue, ids...)
}
