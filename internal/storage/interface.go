package storage

import (
	"context"
	"time"

	"github.com/tmcnicol/playtrace/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Project operations
	SaveProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error)
	GetProjectByKey(ctx context.Context, projectKey string) (*model.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error)
	// DeleteProject removes the project and everything scoped to it:
	// players, sessions, leaderboards, entries and custom data
	DeleteProject(ctx context.Context, id model.ProjectID) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByExternalID(ctx context.Context, externalID string, projectID model.ProjectID) (*model.Player, error)

	// Session operations
	// CreateSession inserts an open session and fails with
	// model.ErrSessionActive if one is already open for the pair
	CreateSession(ctx context.Context, session *model.PlayerSession) error
	GetOpenSession(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerSession, error)
	UpdateSessionHeartbeat(ctx context.Context, id model.SessionID, at time.Time) error
	CloseSession(ctx context.Context, id model.SessionID, endTime time.Time) error
	// FinishSession closes the session and updates the player's playtime
	// aggregate as a single atomic unit
	FinishSession(ctx context.Context, id model.SessionID, endTime time.Time, playerID model.PlayerID, playTime int64, lastPlayed time.Time) error

	// Leaderboard operations
	SaveLeaderboard(ctx context.Context, lb *model.Leaderboard) error
	GetLeaderboard(ctx context.Context, id model.LeaderboardID) (*model.Leaderboard, error)
	ListLeaderboardsForProject(ctx context.Context, projectID model.ProjectID) ([]*model.Leaderboard, error)
	DeleteLeaderboard(ctx context.Context, id model.LeaderboardID) error
	UpsertLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error
	// GetLeaderboardEntries returns entries ordered by score descending
	GetLeaderboardEntries(ctx context.Context, id model.LeaderboardID, offset, limit int) ([]*model.LeaderboardEntry, error)
	CountLeaderboardEntries(ctx context.Context, id model.LeaderboardID) (int, error)

	// Custom data operations
	SaveCustomData(ctx context.Context, data *model.PlayerCustomData) error
	GetCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerCustomData, error)
	DeleteCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) error
}
