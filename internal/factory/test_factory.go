package factory

import (
	"time"

	"github.com/mcoot/pokernight/internal/dependencies/mocks"
	"github.com/mcoot/pokernight/internal/services/auth"
	"github.com/mcoot/pokernight/internal/storage"
	"github.com/mcoot/pokernight/internal/storage/memory"
	"github.com/mcoot/pokernight/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGenerator
}

// NewTestApp creates an in-memory App with mocked dependencies and authentication disabled
func NewTestApp() *TestApp {
	return NewTestAppWith(memory.New(), auth.DefaultConfig())
}

// NewTestAppWith creates an App over the given store and auth settings
func NewTestAppWith(store storage.Storage, authCfg auth.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockIDs, authCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
