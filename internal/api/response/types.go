package response

import (
	"time"

	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/services/auth"
	"github.com/tmcnicol/playtrace/internal/services/leaderboard"
)

// User represents a dashboard user in API responses
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:    string(u.ID),
		Email: u.Email,
		Name:  u.Name,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Project represents a project in API responses
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProjectKey  string    `json:"project_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectFromModel converts a model.Project to a response Project
func ProjectFromModel(p *model.Project) Project {
	return Project{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		ProjectKey:  p.ProjectKey,
		CreatedAt:   p.CreatedAt,
	}
}

// ProjectList is the response for GET /projects
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// ProjectListFromModels converts projects to a ProjectList
func ProjectListFromModels(projects []*model.Project) ProjectList {
	out := ProjectList{Projects: make([]Project, 0, len(projects))}
	for _, p := range projects {
		out.Projects = append(out.Projects, ProjectFromModel(p))
	}
	return out
}

// Player represents a game player in API responses
type Player struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	Guest      bool      `json:"guest"`
	PlayTime   int64     `json:"play_time"`
	LastPlayed time.Time `json:"last_played"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:         string(p.ID),
		PlayerID:   p.ExternalID,
		Guest:      p.Guest,
		PlayTime:   p.PlayTime,
		LastPlayed: p.LastPlayed,
		CreatedAt:  p.CreatedAt,
	}
}

// Session represents a play session in API responses
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
}

// SessionFromModel converts a model.PlayerSession to a response Session
func SessionFromModel(s *model.PlayerSession) Session {
	return Session{
		ID:        string(s.ID),
		StartTime: s.StartTime,
	}
}

// EndSessionResponse is the response for POST /gameplay/end
type EndSessionResponse struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

// CustomData represents a player's custom data blob
type CustomData struct {
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomDataFromModel converts model.PlayerCustomData
func CustomDataFromModel(d *model.PlayerCustomData) CustomData {
	return CustomData{
		Data:      d.Data,
		UpdatedAt: d.UpdatedAt,
	}
}

// Leaderboard represents a leaderboard in API responses
type Leaderboard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeaderboardFromModel converts a model.Leaderboard
func LeaderboardFromModel(l *model.Leaderboard) Leaderboard {
	return Leaderboard{
		ID:          string(l.ID),
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}

// LeaderboardList is the response for GET /projects/{id}/leaderboards
type LeaderboardList struct {
	Leaderboards []Leaderboard `json:"leaderboards"`
}

// LeaderboardListFromModels converts leaderboards to a LeaderboardList
func LeaderboardListFromModels(boards []*model.Leaderboard) LeaderboardList {
	out := LeaderboardList{Leaderboards: make([]Leaderboard, 0, len(boards))}
	for _, b := range boards {
		out.Leaderboards = append(out.Leaderboards, LeaderboardFromModel(b))
	}
	return out
}

// LeaderboardEntry is one ranked row in a leaderboard page
type LeaderboardEntry struct {
	Rank      int       `json:"rank"`
	PlayerID  string    `json:"player_id"`
	Score     int64     `json:"score"`
	EntryData string    `json:"entry_data,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardPage is the response for GET /leaderboards/{id}
type LeaderboardPage struct {
	Leaderboard  Leaderboard        `json:"leaderboard"`
	Entries      []LeaderboardEntry `json:"entries"`
	TotalEntries int                `json:"total_entries"`
	Pages        int                `json:"pages"`
}

// LeaderboardPageFromService converts a leaderboard page, assigning
// ranks relative to the page offset
func LeaderboardPageFromService(p *leaderboard.Page, page int) LeaderboardPage {
	offset := 0
	if page > 0 {
		offset = (page - 1) * leaderboard.PageSize
	}

	out := LeaderboardPage{
		Leaderboard:  LeaderboardFromModel(p.Leaderboard),
		Entries:      make([]LeaderboardEntry, 0, len(p.Entries)),
		TotalEntries: p.TotalEntries,
		Pages:        p.Pages,
	}
	for i, e := range p.Entries {
		out.Entries = append(out.Entries, LeaderboardEntry{
			Rank:      offset + i + 1,
			PlayerID:  e.Player.ExternalID,
			Score:     e.Score,
			EntryData: e.CustomData,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return out
}
