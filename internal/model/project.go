package model

import "time"

// ProjectID uniquely identifies a project
type ProjectID string

// Project is a registered game. Game clients authenticate with the
// project key; the dashboard owner manages everything else.
type Project struct {
	ID          ProjectID
	Name        string
	Description string
	OwnerID     UserID
	ProjectKey  string // API credential issued at creation, unique
	CreatedAt   time.Time
}
