package request

// RegisterRequest is the body for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateProjectRequest is the body for POST /projects
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateLeaderboardRequest is the body for POST /projects/{id}/leaderboards
type CreateLeaderboardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisterPlayerRequest is the body for POST /players
type RegisterPlayerRequest struct {
	Guest bool `json:"guest"`
}

// SetCustomDataRequest is the body for PUT /players/data
type SetCustomDataRequest struct {
	Data string `json:"data"`
}

// SubmitScoreRequest is the body for POST /leaderboards/{id}/scores
type SubmitScoreRequest struct {
	Score int64 `json:"score"`
}
