package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Storage operation names accepted by FailingStorage.Fail
const (
	OpCreateUser        = "CreateUser"
	OpGetUser           = "GetUser"
	OpUpdateDisplayName = "UpdateDisplayName"
	OpSetRole           = "SetRole"
	OpAddFollow         = "AddFollow"
	OpAppendWarning     = "AppendWarning"
	OpListWarnings      = "ListWarnings"
	OpAppendMessage     = "AppendMessage"
	OpListMessages      = "ListMessages"
)

// FailingStorage wraps a real store and returns injected errors for chosen operations
type FailingStorage struct {
	storage.Storage

	mu       sync.Mutex
	failures map[string]error
	calls    map[string]int
}

// Ensure FailingStorage implements Storage
var _ storage.Storage = (*FailingStorage)(nil)

// NewFailingStorage wraps inner; nothing fails until Fail is called
func NewFailingStorage(inner storage.Storage) *FailingStorage {
	return &FailingStorage{
		Storage:  inner,
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Fail makes op return err until Recover is called
func (f *FailingStorage) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

// Recover clears every injected failure
func (f *FailingStorage) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]error)
}

// Calls reports how many times op was invoked, failed or not
func (f *FailingStorage) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FailingStorage) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.failures[op]
}

func (f *FailingStorage) CreateUser(ctx context.Context, u *model.User) error {
	if err := f.check(OpCreateUser); err != nil {
		return err
	}
	return f.Storage.CreateUser(ctx, u)
}

func (f *FailingStorage) GetUser(ctx context.Context, username string) (*model.User, error) {
	if err := f.check(OpGetUser); err != nil {
		return nil, err
	}
	return f.Storage.GetUser(ctx, username)
}

func (f *FailingStorage) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	if err := f.check(OpUpdateDisplayName); err != nil {
		return err
	}
	return f.Storage.UpdateDisplayName(ctx, username, displayName)
}

func (f *FailingStorage) SetRole(ctx context.Context, username string, role model.Role) error {
	if err := f.check(OpSetRole); err != nil {
		return err
	}
	return f.Storage.SetRole(ctx, username, role)
}

func (f *FailingStorage) AddFollow(ctx context.Context, follower, followee string) error {
	if err := f.check(OpAddFollow); err != nil {
		return err
	}
	return f.Storage.AddFollow(ctx, follower, followee)
}

func (f *FailingStorage) AppendWarning(ctx context.Context, w *model.Warning) error {
	if err := f.check(OpAppendWarning); err != nil {
		return err
	}
	return f.Storage.AppendWarning(ctx, w)
}

func (f *FailingStorage) ListWarnings(ctx context.Context, target string) ([]*model.Warning, error) {
	if err := f.check(OpListWarnings); err != nil {
		return nil, err
	}
	return f.Storage.ListWarnings(ctx, target)
}

func (f *FailingStorage) AppendMessage(ctx context.Context, m *model.Message) error {
	if err := f.check(OpAppendMessage); err != nil {
		return err
	}
	return f.Storage.AppendMessage(ctx, m)
}

func (f *FailingStorage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	if err := f.check(OpListMessages); err != nil {
		return nil, err
	}
	return f.Storage.ListMessages(ctx)
}
