package messages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taptext/internal/dependencies/mocks"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.ids = mocks.NewMockIDs()
	s.service = New(s.storage, s.ids)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestAppendAssignsIDAndKeepsTimestamp() {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.ids.Queue("m-1")

	m, err := s.service.Append(s.ctx, "alice", "bob", "hi", ts)
	s.Require().NoError(err)
	s.Equal("m-1", m.ID)
	s.Equal("alice", m.From)
	s.Equal("bob", m.To)
	s.Equal("hi", m.Message)
	s.Equal(ts, m.Timestamp)
}

func (s *ServiceSuite) TestListInAppendOrder() {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_, _ = s.service.Append(s.ctx, "alice", "bob", "one", ts)
	_, _ = s.service.Append(s.ctx, "bob", "alice", "two", ts)
	_, _ = s.service.Append(s.ctx, "alice", "bob", "three", ts)

	list, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("one", list[0].Message)
	s.Equal("two", list[1].Message)
	s.Equal("three", list[2].Message)
}

func (s *ServiceSuite) TestSendersAreNotValidated() {
	_, err := s.service.Append(s.ctx, "nobody", "ghost", "hello", time.Now())
	s.NoError(err)
}

func (s *ServiceSuite) TestAppendFailure() {
	failing := mocks.NewFailingStorage(s.storage)
	failing.Fail(mocks.OpAppendMessage, model.ErrPersistence)
	service := New(failing, s.ids)

	_, err := service.Append(s.ctx, "alice", "bob", "hi", time.Now())
	s.ErrorIs(err, model.ErrPersistence)

	list, _ := s.service.List(s.ctx)
	s.Empty(list)
}
