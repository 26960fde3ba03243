package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taptext/internal/dependencies/mocks"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage/memory"
	"github.com/mcoot/taptext/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs()
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.CreateUser(s.ctx, model.NewUser("AHDX", "hash", "AHDX (Admin)", model.RoleAdmin)))
	s.Require().NoError(s.storage.CreateUser(s.ctx, model.NewUser("alice", "hash", "Alice", model.RoleUser)))
	s.Require().NoError(s.storage.CreateUser(s.ctx, model.NewUser("bob", "hash", "Bob", model.RoleUser)))
}

func (s *ServiceSuite) roleOf(name string) model.Role {
	role, ok, err := s.service.RoleOf(s.ctx, name)
	s.Require().NoError(err)
	s.Require().True(ok)
	return role
}

// RoleOf tests

func (s *ServiceSuite) TestRoleOf() {
	s.Equal(model.RoleAdmin, s.roleOf("AHDX"))
	s.Equal(model.RoleUser, s.roleOf("alice"))
}

func (s *ServiceSuite) TestRoleOfUnknownUser() {
	role, ok, err := s.service.RoleOf(s.ctx, "ghost")
	s.NoError(err)
	s.False(ok)
	s.Empty(role)
}

// Warn tests

func (s *ServiceSuite) TestWarnByAdmin() {
	s.ids.Queue("w-1")

	w, err := s.service.Warn(s.ctx, "AHDX", "bob", "spam")
	s.Require().NoError(err)
	s.Equal("w-1", w.ID)
	s.Equal("bob", w.Target)
	s.Equal("spam", w.Reason)
	s.Equal("AHDX", w.By)
	s.Equal(s.clock.Now(), w.CreatedAt)

	warnings, err := s.service.ListWarnings(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(warnings, 1)
	s.Equal("w-1", warnings[0].ID)
}

func (s *ServiceSuite) TestWarnAppendsEveryCall() {
	_, _ = s.service.Warn(s.ctx, "AHDX", "bob", "spam")
	s.clock.Advance(time.Minute)
	_, _ = s.service.Warn(s.ctx, "AHDX", "bob", "spam")

	warnings, _ := s.service.ListWarnings(s.ctx, "bob")
	s.Require().Len(warnings, 2)
	s.NotEqual(warnings[0].ID, warnings[1].ID)
	s.True(warnings[1].CreatedAt.After(warnings[0].CreatedAt))
}

func (s *ServiceSuite) TestWarnUnknownTargetStillRecorded() {
	_, err := s.service.Warn(s.ctx, "AHDX", "ghost", "spam")
	s.Require().NoError(err)

	warnings, _ := s.service.ListWarnings(s.ctx, "ghost")
	s.Len(warnings, 1)
}

func (s *ServiceSuite) TestWarnByNonAdminIsRejected() {
	_, err := s.service.Warn(s.ctx, "alice", "bob", "x")
	s.ErrorIs(err, model.ErrUnauthorized)

	warnings, _ := s.service.ListWarnings(s.ctx, "bob")
	s.Empty(warnings)
}

func (s *ServiceSuite) TestWarnByUnknownOrEmptyActorIsRejected() {
	_, err := s.service.Warn(s.ctx, "ghost", "bob", "x")
	s.ErrorIs(err, model.ErrUnauthorized)

	_, err = s.service.Warn(s.ctx, "", "bob", "x")
	s.ErrorIs(err, model.ErrUnauthorized)

	warnings, _ := s.service.ListWarnings(s.ctx, "bob")
	s.Empty(warnings)
}

func (s *ServiceSuite) TestListWarningsEmptyIsNotNil() {
	warnings, err := s.service.ListWarnings(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotNil(warnings)
	s.Empty(warnings)
}

// Promote / Demote tests

func (s *ServiceSuite) TestPromoteAndDemote() {
	s.Require().NoError(s.service.Promote(s.ctx, "AHDX", "bob"))
	s.Equal(model.RoleAdmin, s.roleOf("bob"))

	s.Require().NoError(s.service.Demote(s.ctx, "AHDX", "bob"))
	s.Equal(model.RoleUser, s.roleOf("bob"))
}

func (s *ServiceSuite) TestPromotedUserCanModerate() {
	s.Require().NoError(s.service.Promote(s.ctx, "AHDX", "alice"))

	_, err := s.service.Warn(s.ctx, "alice", "bob", "spam")
	s.NoError(err)
}

func (s *ServiceSuite) TestPromoteByNonAdminIsRejected() {
	err := s.service.Promote(s.ctx, "alice", "alice")
	s.ErrorIs(err, model.ErrUnauthorized)
	s.Equal(model.RoleUser, s.roleOf("alice"))
}

func (s *ServiceSuite) TestDemoteByNonAdminIsRejected() {
	err := s.service.Demote(s.ctx, "alice", "AHDX")
	s.ErrorIs(err, model.ErrUnauthorized)
	s.Equal(model.RoleAdmin, s.roleOf("AHDX"))
}

func (s *ServiceSuite) TestAdminCanDemoteSelf() {
	s.Require().NoError(s.service.Demote(s.ctx, "AHDX", "AHDX"))
	s.Equal(model.RoleUser, s.roleOf("AHDX"))

	err := s.service.Promote(s.ctx, "AHDX", "AHDX")
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ServiceSuite) TestPromoteUnknownTargetIsNoop() {
	s.NoError(s.service.Promote(s.ctx, "AHDX", "ghost"))
	s.NoError(s.service.Demote(s.ctx, "AHDX", "ghost"))

	_, ok, _ := s.service.RoleOf(s.ctx, "ghost")
	s.False(ok)
}

func (s *ServiceSuite) TestStorageFailureSurfaces() {
	failing := mocks.NewFailingStorage(s.storage)
	service := New(failing, s.clock, s.ids, testutil.NopLogger())

	failing.Fail(mocks.OpSetRole, model.ErrPersistence)
	s.ErrorIs(service.Promote(s.ctx, "AHDX", "bob"), model.ErrPersistence)

	failing.Recover()
	failing.Fail(mocks.OpAppendWarning, model.ErrPersistence)
	_, err := service.Warn(s.ctx, "AHDX", "bob", "spam")
	s.ErrorIs(err, model.ErrPersistence)
}

func (s *ServiceSuite) TestRejectedCallsDoNotWrite() {
	failing := mocks.NewFailingStorage(s.storage)
	service := New(failing, s.clock, s.ids, testutil.NopLogger())

	_, _ = service.Warn(s.ctx, "alice", "bob", "x")
	_ = service.Promote(s.ctx, "alice", "bob")
	_ = service.Demote(s.ctx, "alice", "AHDX")

	s.Zero(failing.Calls(mocks.OpAppendWarning))
	s.Zero(failing.Calls(mocks.OpSetRole))
}
