package player

import (
	"context"
	"strings"
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

	project *model.Project
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.project = &model.Project{
		ID:         "proj-1",
		Name:       "Space Miner",
		OwnerID:    "user-1",
		ProjectKey: "pk_live_abc123",
		CreatedAt:  s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveProject(s.ctx, s.project))
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player, err := s.service.Register(s.ctx, s.project, "steam-76561198", false)
	s.Require().NoError(err)

	s.Equal("steam-76561198", player.ExternalID)
	s.Equal(s.project.ID, player.ProjectID)
	s.False(player.Guest)
	s.Equal(int64(0), player.PlayTime)
	s.Equal(s.clock.Now(), player.LastPlayed)
}

func (s *ServiceSuite) TestRegisterGuest() {
	player, err := s.service.Register(s.ctx, s.project, "guest-42", true)
	s.Require().NoError(err)
	s.True(player.Guest)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateExternalID() {
	_, err := s.service.Register(s.ctx, s.project, "steam-76561198", false)
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, s.project, "steam-76561198", false)
	s.ErrorIs(err, model.ErrPlayerExists)
}

func (s *ServiceSuite) TestRegisterSameExternalIDAcrossProjects() {
	other := &model.Project{
		ID:         "proj-2",
		Name:       "Other Game",
		OwnerID:    "user-1",
		ProjectKey: "pk_live_def456",
		CreatedAt:  s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveProject(s.ctx, other))

	_, err := s.service.Register(s.ctx, s.project, "steam-76561198", false)
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, other, "steam-76561198", false)
	s.NoError(err)
}

// Custom data tests

func (s *ServiceSuite) registerPlayer() *model.Player {
	player, err := s.service.Register(s.ctx, s.project, "steam-76561198", false)
	s.Require().NoError(err)
	return player
}

func (s *ServiceSuite) TestSetCustomDataRoundTrips() {
	player := s.registerPlayer()

	_, err := s.service.SetCustomData(s.ctx, s.project, player, `{"level":3}`)
	s.Require().NoError(err)

	data, err := s.service.GetCustomData(s.ctx, s.project, player)
	s.Require().NoError(err)
	s.Equal(`{"level":3}`, data.Data)
	s.Equal(s.clock.Now(), data.UpdatedAt)
}

func (s *ServiceSuite) TestSetCustomDataReplaces() {
	player := s.registerPlayer()

	_, err := s.service.SetCustomData(s.ctx, s.project, player, "old")
	s.Require().NoError(err)
	_, err = s.service.SetCustomData(s.ctx, s.project, player, "new")
	s.Require().NoError(err)

	data, err := s.service.GetCustomData(s.ctx, s.project, player)
	s.Require().NoError(err)
	s.Equal("new", data.Data)
}

func (s *ServiceSuite) TestSetCustomDataRejectsOversize() {
	player := s.registerPlayer()

	_, err := s.service.SetCustomData(s.ctx, s.project, player, strings.Repeat("x", model.CustomDataMaxLen+1))
	s.ErrorIs(err, model.ErrCustomDataTooLong)
}

func (s *ServiceSuite) TestSetCustomDataAcceptsMaxLength() {
	player := s.registerPlayer()

	_, err := s.service.SetCustomData(s.ctx, s.project, player, strings.Repeat("x", model.CustomDataMaxLen))
	s.NoError(err)
}

func (s *ServiceSuite) TestGetCustomDataMissing() {
	player := s.registerPlayer()

	_, err := s.service.GetCustomData(s.ctx, s.project, player)
	s.ErrorIs(err, model.ErrCustomDataNotFound)
}

func (s *ServiceSuite) TestDeleteCustomData() {
	player := s.registerPlayer()

	_, err := s.service.SetCustomData(s.ctx, s.project, player, "blob")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteCustomData(s.ctx, s.project, player))

	_, err = s.service.GetCustomData(s.ctx, s.project, player)
	s.ErrorIs(err, model.ErrCustomDataNotFound)
}

func (s *ServiceSuite) TestDeleteCustomDataMissing() {
	player := s.registerPlayer()

	err := s.service.DeleteCustomData(s.ctx, s.project, player)
	s.ErrorIs(err, model.ErrCustomDataNotFound)
}
