package model

import "time"

// UserID uniquely identifies a dashboard user
type UserID string

// User is a dashboard account that owns projects
type User struct {
	ID           UserID
	Email        string // login email (immutable)
	Name         string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
