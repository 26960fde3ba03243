package social

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Service maintains the follow graph and public profiles
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new social Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "social")),
	}
}

// Follow records follower -> followee on both users.
// Repeating a follow changes nothing, and so does naming a user that does not exist.
func (s *Service) Follow(ctx context.Context, follower, followee string) error {
	if err := s.storage.AddFollow(ctx, follower, followee); err != nil {
		return err
	}
	s.logger.Debug("follow recorded",
		slog.String("follower", follower),
		slog.String("followee", followee),
	)
	return nil
}

// UpdateProfile sets the display name. Unknown usernames are ignored.
func (s *Service) UpdateProfile(ctx context.Context, username, displayName string) error {
	err := s.storage.UpdateDisplayName(ctx, username, displayName)
	if errors.Is(err, model.ErrUserNotFound) {
		s.logger.Debug("profile update for unknown user ignored", slog.String("username", username))
		return nil
	}
	return err
}

// GetUser returns a user's public record
func (s *Service) GetUser(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUser(ctx, username)
}
