package storage

import (
	"context"

	"github.com/mcoot/taptext/internal/model"
)

// Storage defines the interface for data persistence.
// Users, warnings and messages are independent collections with no
// foreign keys between them. Each method is its own atomic unit.
type Storage interface {
	// User operations

	// CreateUser inserts u only if the username is unused;
	// otherwise it returns model.ErrUsernameTaken
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, username, displayName string) error
	SetRole(ctx context.Context, username string, role model.Role) error

	// AddFollow records follower -> followee on both records at once.
	// It is a no-op when either user is missing or the edge already exists.
	AddFollow(ctx context.Context, follower, followee string) error

	// Warning operations
	AppendWarning(ctx context.Context, w *model.Warning) error
	ListWarnings(ctx context.Context, target string) ([]*model.Warning, error)

	// Message operations
	AppendMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context) ([]*model.Message, error)

	// Close releases backend resources
	Close() error
}
