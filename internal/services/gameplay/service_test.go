package gameplay

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

	project *model.Project
	player  *model.Player
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

	s.player = &model.Player{
		ID:         "player-1",
		ExternalID: "steam-76561198",
		ProjectID:  s.project.ID,
		Guest:      false,
		PlayTime:   0,
		CreatedAt:  s.clock.Now(),
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, s.player))
}

// Resolve tests

func (s *ServiceSuite) TestResolveSucceeds() {
	project, player, err := s.service.Resolve(s.ctx, "pk_live_abc123", "steam-76561198")
	s.Require().NoError(err)
	s.Equal(s.project.ID, project.ID)
	s.Equal(s.player.ID, player.ID)
}

func (s *ServiceSuite) TestResolveFailsWithMissingProjectKey() {
	_, _, err := s.service.Resolve(s.ctx, "", "steam-76561198")
	s.ErrorIs(err, model.ErrMissingCredentials)
}

func (s *ServiceSuite) TestResolveFailsWithMissingPlayerID() {
	_, _, err := s.service.Resolve(s.ctx, "pk_live_abc123", "")
	s.ErrorIs(err, model.ErrMissingCredentials)
}

func (s *ServiceSuite) TestResolveFailsWithUnknownProject() {
	_, _, err := s.service.Resolve(s.ctx, "pk_live_nope", "steam-76561198")
	s.ErrorIs(err, model.ErrProjectNotFound)
}

func (s *ServiceSuite) TestResolveFailsWithUnknownPlayer() {
	_, _, err := s.service.Resolve(s.ctx, "pk_live_abc123", "someone-else")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestResolveFailureCausesNoMutation() {
	_, _, err := s.service.Resolve(s.ctx, "pk_live_nope", "steam-76561198")
	s.Require().Error(err)

	_, err = s.storage.GetOpenSession(s.ctx, s.player.ID, s.project.ID)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

// Start tests

func (s *ServiceSuite) TestStartOpensSession() {
	session, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.Equal(s.clock.Now(), session.StartTime)
	s.Nil(session.EndTime)
	s.Nil(session.LastHeartbeat)

	open, err := s.storage.GetOpenSession(s.ctx, s.player.ID, s.project.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, open.ID)
}

func (s *ServiceSuite) TestStartConflictsWhileSessionOpen() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	_, err = s.service.Start(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrSessionActive)

	// Still conflicting no matter how often it is retried
	_, err = s.service.Start(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrSessionActive)
}

func (s *ServiceSuite) TestStartSucceedsAfterEnd() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	_, err = s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	_, err = s.service.Start(s.ctx, s.project, s.player)
	s.NoError(err)
}

// Heartbeat tests

func (s *ServiceSuite) TestHeartbeatFailsWithoutSession() {
	err := s.service.Heartbeat(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ServiceSuite) TestHeartbeatRenewsLiveness() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))

	session, err := s.storage.GetOpenSession(s.ctx, s.player.ID, s.project.ID)
	s.Require().NoError(err)
	s.Require().NotNil(session.LastHeartbeat)
	s.Equal(s.clock.Now(), *session.LastHeartbeat)
	s.Nil(session.EndTime)
}

func (s *ServiceSuite) TestHeartbeatAtExactWindowSucceeds() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	// gap == Expiration is still within the window
	s.clock.Advance(Expiration)
	s.NoError(s.service.Heartbeat(s.ctx, s.project, s.player))
}

func (s *ServiceSuite) TestHeartbeatChainKeepsSessionAlive() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	for i := 0; i < 6; i++ {
		s.clock.Advance(8 * time.Minute)
		s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))
	}

	session, err := s.storage.GetOpenSession(s.ctx, s.player.ID, s.project.ID)
	s.Require().NoError(err)
	s.Nil(session.EndTime)
}

func (s *ServiceSuite) TestLateHeartbeatClosesSession() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))

	s.clock.Advance(11 * time.Minute)
	err = s.service.Heartbeat(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrSessionExpired)

	// The session is closed despite the error being reported
	_, err = s.storage.GetOpenSession(s.ctx, s.player.ID, s.project.ID)
	s.ErrorIs(err, model.ErrNoActiveSession)

	// The pair is free again: a new start succeeds
	_, err = s.service.Start(s.ctx, s.project, s.player)
	s.NoError(err)
}

func (s *ServiceSuite) TestHeartbeatExpiresAgainstStartWithoutPriorHeartbeat() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	// No heartbeat was ever sent; the window is measured from start
	s.clock.Advance(Expiration + time.Second)
	err = s.service.Heartbeat(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrSessionExpired)
}

// End tests

func (s *ServiceSuite) TestEndFailsWithoutSession() {
	_, err := s.service.End(s.ctx, s.project, s.player)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ServiceSuite) TestEndWithoutHeartbeat() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Minute)
	duration, err := s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.Equal(int64(300), duration)

	player, err := s.storage.GetPlayer(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(int64(300), player.PlayTime)
	s.Equal(s.clock.Now(), player.LastPlayed)
}

func (s *ServiceSuite) TestEndBackdatesOnStaleHeartbeat() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	// Heartbeat at T0+2m, end at T0+20m: credit 2m+10m, not 20m
	s.clock.Advance(2 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))

	s.clock.Advance(18 * time.Minute)
	duration, err := s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.Equal(int64(720), duration)
}

func (s *ServiceSuite) TestEndWithFreshHeartbeatUsesNow() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(4 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))

	s.clock.Advance(6 * time.Minute)
	duration, err := s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.Equal(int64(600), duration)
}

func (s *ServiceSuite) TestEndRecordsBackdatedEndTime() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(3 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, s.project, s.player))
	heartbeatAt := s.clock.Now()

	s.clock.Advance(30 * time.Minute)
	_, err = s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	// The player aggregate carries the back-dated end, not wall-clock now
	stored, err := s.storage.GetPlayer(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(heartbeatAt.Add(Expiration), stored.LastPlayed)
}

func (s *ServiceSuite) TestPlaytimeAccruesAcrossSessions() {
	durations := []time.Duration{3 * time.Minute, 7 * time.Minute, 90 * time.Second}
	var want int64

	for _, d := range durations {
		player, err := s.storage.GetPlayer(s.ctx, s.player.ID)
		s.Require().NoError(err)

		_, err = s.service.Start(s.ctx, s.project, player)
		s.Require().NoError(err)

		s.clock.Advance(d)
		got, err := s.service.End(s.ctx, s.project, player)
		s.Require().NoError(err)

		want += got
	}

	player, err := s.storage.GetPlayer(s.ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(want, player.PlayTime)
	s.Equal(int64(3*60+7*60+90), player.PlayTime)
}

func (s *ServiceSuite) TestDurationTruncatesToWholeSeconds() {
	_, err := s.service.Start(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.clock.Advance(90*time.Second + 700*time.Millisecond)
	duration, err := s.service.End(s.ctx, s.project, s.player)
	s.Require().NoError(err)

	s.Equal(int64(90), duration)
}
