package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tmcnicol/playtrace/internal/model"
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

func (s *StorageSuite) seedProject(id model.ProjectID, key string) *model.Project {
	project := &model.Project{
		ID:         id,
		Name:       "Game " + string(id),
		OwnerID:    "user-1",
		ProjectKey: key,
		CreatedAt:  time.Now(),
	}
	s.Require().NoError(s.storage.SaveProject(s.ctx, project))
	return project
}

func (s *StorageSuite) seedPlayer(id model.PlayerID, projectID model.ProjectID) *model.Player {
	player := &model.Player{
		ID:         id,
		ExternalID: "ext-" + string(id),
		ProjectID:  projectID,
		CreatedAt:  time.Now(),
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	return player
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		Name:      "Alice",
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Email, retrieved.Email)

	byEmail, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Project tests

func (s *StorageSuite) TestSaveAndGetProject() {
	project := s.seedProject("proj-1", "pk_abc")

	retrieved, err := s.storage.GetProject(s.ctx, "proj-1")
	s.Require().NoError(err)
	s.Equal(project.Name, retrieved.Name)

	byKey, err := s.storage.GetProjectByKey(s.ctx, "pk_abc")
	s.Require().NoError(err)
	s.Equal(project.ID, byKey.ID)
}

func (s *StorageSuite) TestGetProjectNotFound() {
	_, err := s.storage.GetProject(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProjectNotFound)

	_, err = s.storage.GetProjectByKey(s.ctx, "pk_nope")
	s.ErrorIs(err, model.ErrProjectNotFound)
}

func (s *StorageSuite) TestListProjectsByOwnerNewestFirst() {
	older := &model.Project{ID: "proj-1", OwnerID: "user-1", ProjectKey: "pk_1", CreatedAt: time.Now()}
	newer := &model.Project{ID: "proj-2", OwnerID: "user-1", ProjectKey: "pk_2", CreatedAt: time.Now().Add(time.Hour)}
	other := &model.Project{ID: "proj-3", OwnerID: "user-2", ProjectKey: "pk_3", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveProject(s.ctx, older))
	s.Require().NoError(s.storage.SaveProject(s.ctx, newer))
	s.Require().NoError(s.storage.SaveProject(s.ctx, other))

	projects, err := s.storage.ListProjectsByOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal(model.ProjectID("proj-2"), projects[0].ID)
	s.Equal(model.ProjectID("proj-1"), projects[1].ID)
}

func (s *StorageSuite) TestDeleteProjectCascades() {
	project := s.seedProject("proj-1", "pk_abc")
	player := s.seedPlayer("player-1", project.ID)

	session := &model.PlayerSession{
		ID:        "sess-1",
		PlayerID:  player.ID,
		ProjectID: project.ID,
		StartTime: time.Now(),
	}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	board := &model.Leaderboard{ID: "lb-1", ProjectID: project.ID, Name: "Scores"}
	s.Require().NoError(s.storage.SaveLeaderboard(s.ctx, board))
	s.Require().NoError(s.storage.UpsertLeaderboardEntry(s.ctx, &model.LeaderboardEntry{
		PlayerID:      player.ID,
		LeaderboardID: board.ID,
		Score:         10,
	}))
	s.Require().NoError(s.storage.SaveCustomData(s.ctx, &model.PlayerCustomData{
		PlayerID:  player.ID,
		ProjectID: project.ID,
		Data:      "blob",
	}))

	s.Require().NoError(s.storage.DeleteProject(s.ctx, project.ID))

	_, err := s.storage.GetProject(s.ctx, project.ID)
	s.ErrorIs(err, model.ErrProjectNotFound)
	_, err = s.storage.GetProjectByKey(s.ctx, "pk_abc")
	s.ErrorIs(err, model.ErrProjectNotFound)
	_, err = s.storage.GetPlayer(s.ctx, player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.storage.GetOpenSession(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrNoActiveSession)
	_, err = s.storage.GetLeaderboard(s.ctx, board.ID)
	s.ErrorIs(err, model.ErrLeaderboardNotFound)
	_, err = s.storage.GetCustomData(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrCustomDataNotFound)
}

// Player tests

func (s *StorageSuite) TestGetPlayerByExternalIDScopedToProject() {
	s.seedProject("proj-1", "pk_1")
	s.seedProject("proj-2", "pk_2")

	one := &model.Player{ID: "player-1", ExternalID: "steam-1", ProjectID: "proj-1"}
	two := &model.Player{ID: "player-2", ExternalID: "steam-1", ProjectID: "proj-2"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, one))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, two))

	found, err := s.storage.GetPlayerByExternalID(s.ctx, "steam-1", "proj-2")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-2"), found.ID)

	_, err = s.storage.GetPlayerByExternalID(s.ctx, "steam-1", "proj-3")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *StorageSuite) TestCreateSessionRejectsSecondOpen() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)

	first := &model.PlayerSession{ID: "sess-1", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	s.Require().NoError(s.storage.CreateSession(s.ctx, first))

	second := &model.PlayerSession{ID: "sess-2", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	err := s.storage.CreateSession(s.ctx, second)
	s.ErrorIs(err, model.ErrSessionActive)
}

func (s *StorageSuite) TestCloseSessionFreesThePair() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)

	session := &model.PlayerSession{ID: "sess-1", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	end := time.Now().Add(time.Minute)
	s.Require().NoError(s.storage.CloseSession(s.ctx, session.ID, end))

	_, err := s.storage.GetOpenSession(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrNoActiveSession)

	next := &model.PlayerSession{ID: "sess-2", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	s.NoError(s.storage.CreateSession(s.ctx, next))
}

func (s *StorageSuite) TestUpdateSessionHeartbeat() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)

	session := &model.PlayerSession{ID: "sess-1", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	at := time.Now().Add(time.Minute)
	s.Require().NoError(s.storage.UpdateSessionHeartbeat(s.ctx, session.ID, at))

	open, err := s.storage.GetOpenSession(s.ctx, player.ID, project.ID)
	s.Require().NoError(err)
	s.Require().NotNil(open.LastHeartbeat)
	s.Equal(at, *open.LastHeartbeat)
}

func (s *StorageSuite) TestFinishSessionUpdatesPlayer() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)

	session := &model.PlayerSession{ID: "sess-1", PlayerID: player.ID, ProjectID: project.ID, StartTime: time.Now()}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))

	end := time.Now().Add(5 * time.Minute)
	s.Require().NoError(s.storage.FinishSession(s.ctx, session.ID, end, player.ID, 300, end))

	updated, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(300), updated.PlayTime)
	s.Equal(end, updated.LastPlayed)

	_, err = s.storage.GetOpenSession(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

// Leaderboard tests

func (s *StorageSuite) TestLeaderboardEntriesOrderedAndPaged() {
	project := s.seedProject("proj-1", "pk_1")
	board := &model.Leaderboard{ID: "lb-1", ProjectID: project.ID, Name: "Scores"}
	s.Require().NoError(s.storage.SaveLeaderboard(s.ctx, board))

	scores := []int64{50, 20, 90, 10, 70}
	for i, score := range scores {
		player := s.seedPlayer(model.PlayerID([]string{"p1", "p2", "p3", "p4", "p5"}[i]), project.ID)
		s.Require().NoError(s.storage.UpsertLeaderboardEntry(s.ctx, &model.LeaderboardEntry{
			PlayerID:      player.ID,
			LeaderboardID: board.ID,
			Score:         score,
		}))
	}

	entries, err := s.storage.GetLeaderboardEntries(s.ctx, board.ID, 0, 3)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(int64(90), entries[0].Score)
	s.Equal(int64(70), entries[1].Score)
	s.Equal(int64(50), entries[2].Score)

	rest, err := s.storage.GetLeaderboardEntries(s.ctx, board.ID, 3, 3)
	s.Require().NoError(err)
	s.Require().Len(rest, 2)
	s.Equal(int64(20), rest[0].Score)

	beyond, err := s.storage.GetLeaderboardEntries(s.ctx, board.ID, 10, 3)
	s.Require().NoError(err)
	s.Empty(beyond)

	count, err := s.storage.CountLeaderboardEntries(s.ctx, board.ID)
	s.Require().NoError(err)
	s.Equal(5, count)
}

func (s *StorageSuite) TestUpsertLeaderboardEntryReplaces() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)
	board := &model.Leaderboard{ID: "lb-1", ProjectID: project.ID, Name: "Scores"}
	s.Require().NoError(s.storage.SaveLeaderboard(s.ctx, board))

	for _, score := range []int64{100, 40} {
		s.Require().NoError(s.storage.UpsertLeaderboardEntry(s.ctx, &model.LeaderboardEntry{
			PlayerID:      player.ID,
			LeaderboardID: board.ID,
			Score:         score,
		}))
	}

	entries, err := s.storage.GetLeaderboardEntries(s.ctx, board.ID, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(int64(40), entries[0].Score)
}

func (s *StorageSuite) TestDeleteLeaderboardRemovesEntries() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)
	board := &model.Leaderboard{ID: "lb-1", ProjectID: project.ID, Name: "Scores"}
	s.Require().NoError(s.storage.SaveLeaderboard(s.ctx, board))
	s.Require().NoError(s.storage.UpsertLeaderboardEntry(s.ctx, &model.LeaderboardEntry{
		PlayerID:      player.ID,
		LeaderboardID: board.ID,
		Score:         10,
	}))

	s.Require().NoError(s.storage.DeleteLeaderboard(s.ctx, board.ID))

	_, err := s.storage.GetLeaderboard(s.ctx, board.ID)
	s.ErrorIs(err, model.ErrLeaderboardNotFound)

	count, err := s.storage.CountLeaderboardEntries(s.ctx, board.ID)
	s.Require().NoError(err)
	s.Equal(0, count)
}

// Custom data tests

func (s *StorageSuite) TestCustomDataLifecycle() {
	project := s.seedProject("proj-1", "pk_1")
	player := s.seedPlayer("player-1", project.ID)

	_, err := s.storage.GetCustomData(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrCustomDataNotFound)

	s.Require().NoError(s.storage.SaveCustomData(s.ctx, &model.PlayerCustomData{
		PlayerID:  player.ID,
		ProjectID: project.ID,
		Data:      "blob",
	}))

	data, err := s.storage.GetCustomData(s.ctx, player.ID, project.ID)
	s.Require().NoError(err)
	s.Equal("blob", data.Data)

	s.Require().NoError(s.storage.DeleteCustomData(s.ctx, player.ID, project.ID))

	err = s.storage.DeleteCustomData(s.ctx, player.ID, project.ID)
	s.ErrorIs(err, model.ErrCustomDataNotFound)
}
