package memory

import (
	"context"
	"sync"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users    map[string]*userRecord
	warnings []*model.Warning
	messages []*model.Message
}

// userRecord keeps follow edges as sets; model.User exposes them as sorted slices
type userRecord struct {
	username     string
	passwordHash string
	displayName  string
	role         model.Role
	followers    map[string]struct{}
	following    map[string]struct{}
}

func (r *userRecord) toModel() *model.User {
	return &model.User{
		Username:     r.username,
		PasswordHash: r.passwordHash,
		DisplayName:  r.displayName,
		Role:         r.role,
		Followers:    model.SortedSet(r.followers),
		Following:    model.SortedSet(r.following),
	}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users: make(map[string]*userRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return model.ErrUsernameTaken
	}
	rec := &userRecord{
		username:     u.Username,
		passwordHash: u.PasswordHash,
		displayName:  u.DisplayName,
		role:         u.Role,
		followers:    make(map[string]struct{}),
		following:    make(map[string]struct{}),
	}
	for _, f := range u.Followers {
		rec.followers[f] = struct{}{}
	}
	for _, f := range u.Following {
		rec.following[f] = struct{}{}
	}
	s.users[u.Username] = rec
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return rec.toModel(), nil
}

func (s *Storage) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	rec.displayName = displayName
	return nil
}

func (s *Storage) SetRole(ctx context.Context, username string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	rec.role = role
	return nil
}

func (s *Storage) AddFollow(ctx context.Context, follower, followee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	from, ok := s.users[follower]
	if !ok {
		return nil
	}
	to, ok := s.users[followee]
	if !ok {
		return nil
	}
	from.following[followee] = struct{}{}
	to.followers[follower] = struct{}{}
	return nil
}

// Warning operations

func (s *Storage) AppendWarning(ctx context.Context, w *model.Warning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *w
	s.warnings = append(s.warnings, &c)
	return nil
}

func (s *Storage) ListWarnings(ctx context.Context, target string) ([]*model.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Warning, 0)
	for _, w := range s.warnings {
		if w.Target == target {
			c := *w
			result = append(result, &c)
		}
	}
	return result, nil
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	s.messages = append(s.messages, &c)
	return nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Message, len(s.messages))
	for i, m := range s.messages {
		c := *m
		result[i] = &c
	}
	return result, nil
}

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}
