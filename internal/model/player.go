package model

import "time"

// PlayerID uniquely identifies a player row across the system
type PlayerID string

// Player is a participant within exactly one project.
// ExternalID is supplied by the game client and is unique only
// within the owning project.
type Player struct {
	ID         PlayerID
	ExternalID string
	ProjectID  ProjectID
	Guest      bool
	PlayTime   int64 // cumulative seconds across closed sessions, never decreases
	LastPlayed time.Time
	CreatedAt  time.Time
}

// CustomDataMaxLen is the maximum size of a player's custom data blob
const CustomDataMaxLen = 255

// PlayerCustomData is an opaque per-player blob the game client can
// attach, e.g. a display name shown on leaderboards
type PlayerCustomData struct {
	PlayerID  PlayerID
	ProjectID ProjectID
	Data      string
	UpdatedAt time.Time
}
