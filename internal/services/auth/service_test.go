package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/taptext/internal/dependencies/mocks"
	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage/memory"
	"github.com/mcoot/taptext/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger(), Config{BcryptCost: bcrypt.MinCost})
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	u, err := s.service.Register(s.ctx, "alice", "pw1", "Alice")
	s.Require().NoError(err)

	s.Equal("alice", u.Username)
	s.Equal("Alice", u.DisplayName)
	s.Equal(model.RoleUser, u.Role)
	s.Empty(u.Followers)
	s.Empty(u.Following)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1", "Alice")

	stored, err := s.storage.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(stored.PasswordHash)
	s.NotEqual("pw1", stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}

func (s *ServiceSuite) TestRegisterDuplicateFailsRegardlessOfPassword() {
	_, err := s.service.Register(s.ctx, "alice", "pw1", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "pw1", "Alice")
	s.ErrorIs(err, model.ErrUsernameTaken)

	_, err = s.service.Register(s.ctx, "alice", "different", "Someone Else")
	s.ErrorIs(err, model.ErrUsernameTaken)

	// Original credentials still work
	_, err = s.service.Login(s.ctx, "alice", "pw1")
	s.NoError(err)
}

func (s *ServiceSuite) TestConcurrentRegisterOnlyOneWins() {
	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.service.Register(s.ctx, "alice", "pw", "Alice"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1", "Alice")

	u, err := s.service.Login(s.ctx, "alice", "pw1")
	s.Require().NoError(err)
	s.Equal("alice", u.Username)
	s.Equal(model.RoleUser, u.Role)
}

func (s *ServiceSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "pw")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrWrongPassword)
}

func (s *ServiceSuite) TestLoginIsCaseSensitive() {
	_, _ = s.service.Register(s.ctx, "alice", "pw1", "Alice")

	_, err := s.service.Login(s.ctx, "Alice", "pw1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// BootstrapAdmin tests

func (s *ServiceSuite) TestBootstrapAdminCreatesAdmin() {
	err := s.service.BootstrapAdmin(s.ctx, DefaultAdminUsername, DefaultAdminPassword, DefaultAdminDisplayName)
	s.Require().NoError(err)

	u, err := s.service.Login(s.ctx, "AHDX", "admin123")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, u.Role)
	s.Equal("AHDX (Admin)", u.DisplayName)
}

func (s *ServiceSuite) TestBootstrapAdminIsIdempotent() {
	s.Require().NoError(s.service.BootstrapAdmin(s.ctx, "AHDX", "admin123", "AHDX (Admin)"))
	s.Require().NoError(s.service.BootstrapAdmin(s.ctx, "AHDX", "other-password", "Changed"))

	u, err := s.service.Login(s.ctx, "AHDX", "admin123")
	s.Require().NoError(err)
	s.Equal("AHDX (Admin)", u.DisplayName)
	s.Equal(model.RoleAdmin, u.Role)
}

func (s *ServiceSuite) TestBootstrapAdminLeavesExistingAccountAlone() {
	_, _ = s.service.Register(s.ctx, "AHDX", "squatter", "Not Admin")

	s.Require().NoError(s.service.BootstrapAdmin(s.ctx, "AHDX", "admin123", "AHDX (Admin)"))

	u, _ := s.storage.GetUser(s.ctx, "AHDX")
	s.Equal(model.RoleUser, u.Role)
}

func (s *ServiceSuite) TestBootstrapAdminSurfacesStorageErrors() {
	failing := mocks.NewFailingStorage(s.storage)
	failing.Fail(mocks.OpCreateUser, model.ErrPersistence)
	service := New(failing, testutil.NopLogger(), Config{BcryptCost: bcrypt.MinCost})

	err := service.BootstrapAdmin(s.ctx, "AHDX", "admin123", "AHDX (Admin)")
	s.True(errors.Is(err, model.ErrPersistence))
}
