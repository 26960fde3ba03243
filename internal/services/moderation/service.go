package moderation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/taptext/internal/dependencies/clock"
	"github.com/mcoot/taptext/internal/dependencies/ids"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Service gates warn, promote and demote on the acting user's role.
// A rejected call performs no writes.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new moderation Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger.With(slog.String("component", "moderation")),
	}
}

// RoleOf returns the role of username; ok is false when the user does not exist
func (s *Service) RoleOf(ctx context.Context, username string) (model.Role, bool, error) {
	u, err := s.storage.GetUser(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return u.Role, true, nil
}

// authorize returns model.ErrUnauthorized unless actor is an existing admin
func (s *Service) authorize(ctx context.Context, actor string) error {
	if actor == "" {
		return model.ErrUnauthorized
	}
	role, ok, err := s.RoleOf(ctx, actor)
	if err != nil {
		return err
	}
	if !ok || role != model.RoleAdmin {
		s.logger.Warn("moderation action rejected", slog.String("actor", actor))
		return model.ErrUnauthorized
	}
	return nil
}

// Warn appends a warning against target. Every call adds a new record.
func (s *Service) Warn(ctx context.Context, admin, target, reason string) (*model.Warning, error) {
	if err := s.authorize(ctx, admin); err != nil {
		return nil, err
	}

	w := &model.Warning{
		ID:        s.ids.NewID(),
		Target:    target,
		Reason:    reason,
		By:        admin,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.AppendWarning(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("warning issued",
		slog.String("admin", admin),
		slog.String("target", target),
		slog.String("warning_id", w.ID),
	)
	return w, nil
}

// Promote grants target the admin role
func (s *Service) Promote(ctx context.Context, admin, target string) error {
	return s.setRole(ctx, admin, target, model.RoleAdmin)
}

// Demote returns target to the user role
func (s *Service) Demote(ctx context.Context, admin, target string) error {
	return s.setRole(ctx, admin, target, model.RoleUser)
}

// setRole is last-write-wins; an unknown target is ignored
func (s *Service) setRole(ctx context.Context, admin, target string, role model.Role) error {
	if err := s.authorize(ctx, admin); err != nil {
		return err
	}

	err := s.storage.SetRole(ctx, target, role)
	if errors.Is(err, model.ErrUserNotFound) {
		s.logger.Debug("role change for unknown user ignored", slog.String("target", target))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("role changed",
		slog.String("admin", admin),
		slog.String("target", target),
		slog.String("role", string(role)),
	)
	return nil
}

// ListWarnings returns the warnings against target in the order they were issued.
// Anyone may read them.
func (s *Service) ListWarnings(ctx context.Context, target string) ([]*model.Warning, error) {
	return s.storage.ListWarnings(ctx, target)
}
