package model

import "time"

// SessionID uniquely identifies a play session
type SessionID string

// PlayerSession is one bounded interval of continuous gameplay.
// EndTime is nil while the session is open; at most one open session
// may exist per (player, project) pair.
type PlayerSession struct {
	ID            SessionID
	PlayerID      PlayerID
	ProjectID     ProjectID
	StartTime     time.Time  // set at creation, immutable
	EndTime       *time.Time // nil means open
	LastHeartbeat *time.Time // nil until the first heartbeat arrives
	CreatedAt     time.Time
}

// Open reports whether the session has not been closed yet
func (s *PlayerSession) Open() bool {
	return s.EndTime == nil
}
