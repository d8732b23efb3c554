package project

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
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateIssuesPrefixedKey() {
	s.random.QueueString("aaaa1111bbbb2222cccc3333dddd4444")

	project, err := s.service.Create(s.ctx, "user-1", "Space Miner", "mining in space")
	s.Require().NoError(err)

	s.Equal("pk_aaaa1111bbbb2222cccc3333dddd4444", project.ProjectKey)
	s.Equal(model.UserID("user-1"), project.OwnerID)
	s.Equal(s.clock.Now(), project.CreatedAt)
}

func (s *ServiceSuite) TestCreateRetriesOnKeyCollision() {
	s.random.QueueString("collision", "collision", "fresh")

	first, err := s.service.Create(s.ctx, "user-1", "First", "")
	s.Require().NoError(err)
	s.Equal("pk_collision", first.ProjectKey)

	second, err := s.service.Create(s.ctx, "user-1", "Second", "")
	s.Require().NoError(err)
	s.Equal("pk_fresh", second.ProjectKey)
}

func (s *ServiceSuite) TestGetScopedToOwner() {
	s.random.QueueString("key1")
	project, err := s.service.Create(s.ctx, "user-1", "Mine", "")
	s.Require().NoError(err)

	got, err := s.service.Get(s.ctx, project.ID, "user-1")
	s.Require().NoError(err)
	s.Equal(project.ID, got.ID)

	_, err = s.service.Get(s.ctx, project.ID, "user-2")
	s.ErrorIs(err, model.ErrProjectNotFound)
}

func (s *ServiceSuite) TestListReturnsOwnProjectsOnly() {
	s.random.QueueString("key1", "key2", "key3")
	_, err := s.service.Create(s.ctx, "user-1", "One", "")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.service.Create(s.ctx, "user-1", "Two", "")
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, "user-2", "Other", "")
	s.Require().NoError(err)

	projects, err := s.service.List(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(projects, 2)

	// Newest first
	s.Equal("Two", projects[0].Name)
	s.Equal("One", projects[1].Name)
}

func (s *ServiceSuite) TestDeleteScopedToOwner() {
	s.random.QueueString("key1")
	project, err := s.service.Create(s.ctx, "user-1", "Mine", "")
	s.Require().NoError(err)

	err = s.service.Delete(s.ctx, project.ID, "user-2")
	s.ErrorIs(err, model.ErrProjectNotFound)

	s.Require().NoError(s.service.Delete(s.ctx, project.ID, "user-1"))

	_, err = s.storage.GetProject(s.ctx, project.ID)
	s.ErrorIs(err, model.ErrProjectNotFound)
}
