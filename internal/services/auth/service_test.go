package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tmcnicol/playtrace/internal/dependencies/mocks"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage/memory"
	"github.com/tmcnicol/playtrace/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("alice@example.com", session.User.Email)
	s.NotEmpty(session.UserID)
}

func (s *ServiceSuite) TestRegisterPersistsUser() {
	session, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	user, err := s.storage.GetUser(s.ctx, session.UserID)
	s.Require().NoError(err)
	s.Equal("Alice", user.Name)
	s.NotEqual("secret123", user.PasswordHash)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateEmail() {
	_, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice@example.com", "other456", "Impostor")
	s.ErrorIs(err, model.ErrEmailExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice@example.com", "secret123")
	s.Require().NoError(err)
	s.Equal(registered.UserID, session.UserID)
}

func (s *ServiceSuite) TestLoginRejectsWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginRejectsUnknownEmail() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	registered, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.ValidateSession(registered.Token)
	s.Require().NoError(err)
	s.Equal(registered.UserID, session.UserID)
}

func (s *ServiceSuite) TestValidateSessionRejectsUnknownToken() {
	_, err := s.service.ValidateSession("sess_nope")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionRejectsExpiredToken() {
	registered, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	s.clock.Advance(31 * 24 * time.Hour)
	_, err = s.service.ValidateSession(registered.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	registered, err := s.service.Register(s.ctx, "alice@example.com", "secret123", "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(registered.Token)
	_, err = s.service.ValidateSession(registered.Token)
	s.ErrorIs(err, ErrInvalidSession)
}
