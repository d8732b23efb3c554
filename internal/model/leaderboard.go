package model

import "time"

// LeaderboardID uniquely identifies a leaderboard
type LeaderboardID string

// Leaderboard is a per-project score table
type Leaderboard struct {
	ID          LeaderboardID
	ProjectID   ProjectID
	Name        string
	Description string
	CreatedAt   time.Time
}

// LeaderboardEntry is a player's score on one leaderboard.
// (PlayerID, LeaderboardID) is unique; resubmitting replaces the score.
type LeaderboardEntry struct {
	PlayerID      PlayerID
	LeaderboardID LeaderboardID
	Score         int64
	UpdatedAt     time.Time
}
