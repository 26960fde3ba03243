package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Errors
var (
	ErrWrongPassword = errors.New("wrong password")
)

// Admin account seeded at startup
const (
	DefaultAdminUsername    = "AHDX"
	DefaultAdminPassword    = "admin123"
	DefaultAdminDisplayName = "AHDX (Admin)"
)

// Service is the only component that reads or writes password hashes
type Service struct {
	storage    storage.Storage
	logger     *slog.Logger
	bcryptCost int
}

// Config holds configuration for the auth service
type Config struct {
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, logger *slog.Logger, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:    storage,
		logger:     logger.With(slog.String("component", "auth")),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a user with the user role.
// Uniqueness is decided by the store's insert, so racing registrations
// for one name cannot both succeed.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*model.User, error) {
	u, err := s.newUser(username, password, displayName, model.RoleUser)
	if err != nil {
		return nil, err
	}

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return u, nil
}

// Login returns the stored user when the password matches
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.storage.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	return u, nil
}

// BootstrapAdmin creates the admin account unless the username already exists.
// An existing account is left untouched, whatever its role or password.
func (s *Service) BootstrapAdmin(ctx context.Context, username, password, displayName string) error {
	u, err := s.newUser(username, password, displayName, model.RoleAdmin)
	if err != nil {
		return err
	}

	err = s.storage.CreateUser(ctx, u)
	switch {
	case err == nil:
		s.logger.Info("admin account created", slog.String("username", username))
		return nil
	case errors.Is(err, model.ErrUsernameTaken):
		s.logger.Debug("admin account already present", slog.String("username", username))
		return nil
	default:
		return err
	}
}

func (s *Service) newUser(username, password, displayName string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return model.NewUser(username, string(hash), displayName, role), nil
}
