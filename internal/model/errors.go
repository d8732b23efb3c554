package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already registered")

	// Gameplay errors
	ErrMissingCredentials = errors.New("project key or player id not provided")
	ErrSessionActive      = errors.New("session already active")
	ErrNoActiveSession    = errors.New("no active session found")
	ErrSessionExpired     = errors.New("session has expired")

	// Leaderboard errors
	ErrLeaderboardNotFound = errors.New("leaderboard not found")

	// Custom data errors
	ErrCustomDataNotFound = errors.New("custom data not found")
	ErrCustomDataTooLong  = errors.New("custom data exceeds maximum length")
)
