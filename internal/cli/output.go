package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Project:
		o.printProject(v)
	case ProjectList:
		o.printProjectList(v)
	case Player:
		o.printPlayer(v)
	case Session:
		o.printSession(v)
	case EndResult:
		o.printEndResult(v)
	case CustomData:
		o.printCustomData(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case LeaderboardList:
		o.printLeaderboardList(v)
	case LeaderboardPage:
		o.printLeaderboardPage(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Project response type
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProjectKey  string    `json:"project_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectList response type
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// Player response type
type Player struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	Guest      bool      `json:"guest"`
	PlayTime   int64     `json:"play_time"`
	LastPlayed time.Time `json:"last_played"`
}

// Session response type
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
}

// EndResult response type
type EndResult struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

// CustomData response type
type CustomData struct {
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Leaderboard response type
type Leaderboard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LeaderboardList response type
type LeaderboardList struct {
	Leaderboards []Leaderboard `json:"leaderboards"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	PlayerID  string `json:"player_id"`
	Score     int64  `json:"score"`
	EntryData string `json:"entry_data,omitempty"`
}

// LeaderboardPage response type
type LeaderboardPage struct {
	Leaderboard  Leaderboard        `json:"leaderboard"`
	Entries      []LeaderboardEntry `json:"entries"`
	TotalEntries int                `json:"total_entries"`
	Pages        int                `json:"pages"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Email: %s\n", u.Email)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printProject(p Project) {
	fmt.Printf("Project: %s (%s)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	fmt.Printf("Key: %s\n", p.ProjectKey)
	fmt.Printf("Created: %s\n", p.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printProjectList(l ProjectList) {
	fmt.Printf("Projects (%d):\n", len(l.Projects))
	for _, p := range l.Projects {
		fmt.Printf("  - %s (%s) key=%s\n", p.Name, p.ID, p.ProjectKey)
	}
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.Guest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.PlayerID, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
	fmt.Printf("Playtime: %ds\n", p.PlayTime)
	fmt.Printf("Last Played: %s\n", p.LastPlayed.Format(time.RFC3339))
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Started: %s\n", s.StartTime.Format(time.RFC3339))
}

func (o *Output) printEndResult(e EndResult) {
	fmt.Printf("Session ended: %ds credited\n", e.DurationSeconds)
}

func (o *Output) printCustomData(d CustomData) {
	fmt.Printf("Data: %s\n", d.Data)
	fmt.Printf("Updated: %s\n", d.UpdatedAt.Format(time.RFC3339))
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard: %s (%s)\n", l.Name, l.ID)
	if l.Description != "" {
		fmt.Printf("Description: %s\n", l.Description)
	}
}

func (o *Output) printLeaderboardList(l LeaderboardList) {
	fmt.Printf("Leaderboards (%d):\n", len(l.Leaderboards))
	for _, b := range l.Leaderboards {
		fmt.Printf("  - %s (%s)\n", b.Name, b.ID)
	}
}

func (o *Output) printLeaderboardPage(p LeaderboardPage) {
	o.printLeaderboard(p.Leaderboard)
	fmt.Printf("Entries: %d (pages: %d)\n", p.TotalEntries, p.Pages)
	for _, e := range p.Entries {
		line := fmt.Sprintf("  %3d. %s - %d", e.Rank, e.PlayerID, e.Score)
		if e.EntryData != "" {
			line += " " + e.EntryData
		}
		fmt.Println(line)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
