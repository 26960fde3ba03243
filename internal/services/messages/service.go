package messages

import (
	"context"
	"time"

	"github.com/mcoot/taptext/internal/dependencies/ids"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// Service is the append-only message log
type Service struct {
	storage storage.Storage
	ids     ids.Generator
}

// New creates a new messages Service
func New(storage storage.Storage, ids ids.Generator) *Service {
	return &Service{
		storage: storage,
		ids:     ids,
	}
}

// Append persists a message. The timestamp comes from the caller so the
// stored record and any broadcast copy agree.
func (s *Service) Append(ctx context.Context, from, to, message string, timestamp time.Time) (*model.Message, error) {
	m := &model.Message{
		ID:        s.ids.NewID(),
		From:      from,
		To:        to,
		Message:   message,
		Timestamp: timestamp,
	}
	if err := s.storage.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns every message in the order it was appended
func (s *Service) List(ctx context.Context) ([]*model.Message, error) {
	return s.storage.ListMessages(ctx)
}
