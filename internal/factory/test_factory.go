package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/taptext/internal/dependencies/mocks"
	"github.com/mcoot/taptext/internal/relay"
	"github.com/mcoot/taptext/internal/services/auth"
	"github.com/mcoot/taptext/internal/storage"
	"github.com/mcoot/taptext/internal/storage/memory"
	"github.com/mcoot/taptext/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App over an in-memory store with mocked dependencies.
// The relay hub is not running until Start is called.
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage is NewTestApp over the given store
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	app := newWithDependencies(
		store,
		mockClock,
		mockIDs,
		auth.Config{BcryptCost: bcrypt.MinCost},
		relay.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
