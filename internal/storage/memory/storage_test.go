package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taptext/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) createUser(username string) {
	s.Require().NoError(s.storage.CreateUser(s.ctx, model.NewUser(username, "hash", username, model.RoleUser)))
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	err := s.storage.CreateUser(s.ctx, model.NewUser("alice", "hash123", "Alice", model.RoleUser))
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash123", retrieved.PasswordHash)
	s.Equal("Alice", retrieved.DisplayName)
	s.Equal(model.RoleUser, retrieved.Role)
	s.Empty(retrieved.Followers)
	s.Empty(retrieved.Following)
}

func (s *StorageSuite) TestCreateUserRejectsDuplicate() {
	s.createUser("alice")

	err := s.storage.CreateUser(s.ctx, model.NewUser("alice", "other", "Other", model.RoleAdmin))
	s.ErrorIs(err, model.ErrUsernameTaken)

	retrieved, _ := s.storage.GetUser(s.ctx, "alice")
	s.Equal(model.RoleUser, retrieved.Role)
}

func (s *StorageSuite) TestUsernamesAreCaseSensitive() {
	s.createUser("alice")
	s.NoError(s.storage.CreateUser(s.ctx, model.NewUser("Alice", "hash", "Alice", model.RoleUser)))
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserReturnsCopy() {
	s.createUser("alice")

	u, _ := s.storage.GetUser(s.ctx, "alice")
	u.DisplayName = "mutated"

	again, _ := s.storage.GetUser(s.ctx, "alice")
	s.Equal("alice", again.DisplayName)
}

func (s *StorageSuite) TestUpdateDisplayName() {
	s.createUser("alice")

	s.Require().NoError(s.storage.UpdateDisplayName(s.ctx, "alice", "Alice Liddell"))

	u, _ := s.storage.GetUser(s.ctx, "alice")
	s.Equal("Alice Liddell", u.DisplayName)
}

func (s *StorageSuite) TestUpdateDisplayNameNotFound() {
	err := s.storage.UpdateDisplayName(s.ctx, "nobody", "x")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSetRole() {
	s.createUser("alice")

	s.Require().NoError(s.storage.SetRole(s.ctx, "alice", model.RoleAdmin))
	u, _ := s.storage.GetUser(s.ctx, "alice")
	s.Equal(model.RoleAdmin, u.Role)

	s.Require().NoError(s.storage.SetRole(s.ctx, "alice", model.RoleUser))
	u, _ = s.storage.GetUser(s.ctx, "alice")
	s.Equal(model.RoleUser, u.Role)
}

func (s *StorageSuite) TestSetRoleNotFound() {
	err := s.storage.SetRole(s.ctx, "nobody", model.RoleAdmin)
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Follow tests

func (s *StorageSuite) TestAddFollowUpdatesBothSides() {
	s.createUser("alice")
	s.createUser("bob")

	s.Require().NoError(s.storage.AddFollow(s.ctx, "alice", "bob"))

	alice, _ := s.storage.GetUser(s.ctx, "alice")
	bob, _ := s.storage.GetUser(s.ctx, "bob")
	s.Equal([]string{"bob"}, alice.Following)
	s.Empty(alice.Followers)
	s.Equal([]string{"alice"}, bob.Followers)
	s.Empty(bob.Following)
}

func (s *StorageSuite) TestAddFollowIsIdempotent() {
	s.createUser("alice")
	s.createUser("bob")

	_ = s.storage.AddFollow(s.ctx, "alice", "bob")
	_ = s.storage.AddFollow(s.ctx, "alice", "bob")

	alice, _ := s.storage.GetUser(s.ctx, "alice")
	bob, _ := s.storage.GetUser(s.ctx, "bob")
	s.Equal([]string{"bob"}, alice.Following)
	s.Equal([]string{"alice"}, bob.Followers)
}

func (s *StorageSuite) TestAddFollowMissingUserIsNoop() {
	s.createUser("alice")

	s.NoError(s.storage.AddFollow(s.ctx, "alice", "ghost"))
	s.NoError(s.storage.AddFollow(s.ctx, "ghost", "alice"))

	alice, _ := s.storage.GetUser(s.ctx, "alice")
	s.Empty(alice.Following)
	s.Empty(alice.Followers)
}

func (s *StorageSuite) TestConcurrentFollowsStaySymmetric() {
	s.createUser("hub")
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		s.createUser(n)
	}

	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.storage.AddFollow(s.ctx, n, "hub")
		}()
		go func() {
			defer wg.Done()
			_ = s.storage.AddFollow(s.ctx, "hub", n)
		}()
	}
	wg.Wait()

	hub, _ := s.storage.GetUser(s.ctx, "hub")
	s.Equal(names, hub.Followers)
	s.Equal(names, hub.Following)
	for _, n := range names {
		u, _ := s.storage.GetUser(s.ctx, n)
		s.True(u.IsFollowing("hub"))
		s.True(u.HasFollower("hub"))
	}
}

// Warning tests

func (s *StorageSuite) TestAppendAndListWarnings() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.AppendWarning(s.ctx, &model.Warning{ID: "w1", Target: "bob", Reason: "spam", By: "AHDX", CreatedAt: now})
	_ = s.storage.AppendWarning(s.ctx, &model.Warning{ID: "w2", Target: "carol", Reason: "rude", By: "AHDX", CreatedAt: now})
	_ = s.storage.AppendWarning(s.ctx, &model.Warning{ID: "w3", Target: "bob", Reason: "spam again", By: "AHDX", CreatedAt: now})

	warnings, err := s.storage.ListWarnings(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(warnings, 2)
	s.Equal("w1", warnings[0].ID)
	s.Equal("w3", warnings[1].ID)
}

func (s *StorageSuite) TestListWarningsEmpty() {
	warnings, err := s.storage.ListWarnings(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(warnings)
	s.Empty(warnings)
}

// Message tests

func (s *StorageSuite) TestAppendAndListMessages() {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.AppendMessage(s.ctx, &model.Message{ID: "m1", From: "alice", To: "bob", Message: "hi", Timestamp: ts})
	_ = s.storage.AppendMessage(s.ctx, &model.Message{ID: "m2", From: "bob", To: "alice", Message: "hey", Timestamp: ts.Add(time.Second)})

	messages, err := s.storage.ListMessages(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(messages, 2)
	s.Equal("m1", messages[0].ID)
	s.Equal("hi", messages[0].Message)
	s.Equal(ts, messages[0].Timestamp)
	s.Equal("m2", messages[1].ID)
}
