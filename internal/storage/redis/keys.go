package redis

import (
	"fmt"

	"github.com/tmcnicol/playtrace/internal/model"
)

// Key prefixes for all stored entities. Secondary lookups (email,
// project key, external player id, open session) are pointer keys
// holding the primary id.

func userKey(id model.UserID) string {
	return fmt.Sprintf("user:%s", id)
}

func emailIndexKey(email string) string {
	return fmt.Sprintf("user_email:%s", email)
}

func projectKey(id model.ProjectID) string {
	return fmt.Sprintf("project:%s", id)
}

func projectKeyIndexKey(key string) string {
	return fmt.Sprintf("project_key:%s", key)
}

func ownerProjectsKey(ownerID model.UserID) string {
	return fmt.Sprintf("owner_projects:%s", ownerID)
}

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("player:%s", id)
}

func externalPlayerKey(projectID model.ProjectID, externalID string) string {
	return fmt.Sprintf("player_ext:%s:%s", projectID, externalID)
}

func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("session:%s", id)
}

func openSessionKey(projectID model.ProjectID, playerID model.PlayerID) string {
	return fmt.Sprintf("session_open:%s:%s", projectID, playerID)
}

func leaderboardKey(id model.LeaderboardID) string {
	return fmt.Sprintf("leaderboard:%s", id)
}

func projectLeaderboardsKey(projectID model.ProjectID) string {
	return fmt.Sprintf("project_leaderboards:%s", projectID)
}

func leaderboardEntriesKey(id model.LeaderboardID) string {
	return fmt.Sprintf("lb_entries:%s", id)
}

func projectPlayersKey(projectID model.ProjectID) string {
	return fmt.Sprintf("project_players:%s", projectID)
}

func projectSessionsKey(projectID model.ProjectID) string {
	return fmt.Sprintf("project_sessions:%s", projectID)
}

func customDataKey(projectID model.ProjectID, playerID model.PlayerID) string {
	return fmt.Sprintf("custom_data:%s:%s", projectID, playerID)
}
