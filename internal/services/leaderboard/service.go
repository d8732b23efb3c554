package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tmcnicol/playtrace/internal/dependencies/clock"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// PageSize is the number of entries returned per leaderboard page
const PageSize = 10

// Entry is a ranked leaderboard entry with its player attached
type Entry struct {
	Player     *model.Player
	Score      int64
	UpdatedAt  time.Time
	CustomData string
}

// Page is one page of a leaderboard, ranked best score first
type Page struct {
	Leaderboard  *model.Leaderboard
	Entries      []*Entry
	TotalEntries int
	Pages        int
}

// Service manages leaderboards and score submission
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new leaderboard service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Create adds a leaderboard to a project
func (s *Service) Create(ctx context.Context, project *model.Project, name, description string) (*model.Leaderboard, error) {
	board := &model.Leaderboard{
		ID:          model.LeaderboardID(uuid.NewString()),
		ProjectID:   project.ID,
		Name:        name,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveLeaderboard(ctx, board); err != nil {
		return nil, err
	}

	s.logger.Info("leaderboard created",
		slog.String("leaderboard_id", string(board.ID)),
		slog.String("project_id", string(project.ID)),
	)

	return board, nil
}

// List returns the project's leaderboards
func (s *Service) List(ctx context.Context, project *model.Project) ([]*model.Leaderboard, error) {
	return s.storage.ListLeaderboardsForProject(ctx, project.ID)
}

// Delete removes a leaderboard and its entries
func (s *Service) Delete(ctx context.Context, project *model.Project, id model.LeaderboardID) error {
	if _, err := s.get(ctx, project, id); err != nil {
		return err
	}
	return s.storage.DeleteLeaderboard(ctx, id)
}

// SubmitScore records a player's score. A player holds at most one
// entry per leaderboard; resubmitting replaces it.
func (s *Service) SubmitScore(ctx context.Context, project *model.Project, player *model.Player, id model.LeaderboardID, score int64) (*model.LeaderboardEntry, error) {
	if _, err := s.get(ctx, project, id); err != nil {
		return nil, err
	}

	entry := &model.LeaderboardEntry{
		PlayerID:      player.ID,
		LeaderboardID: id,
		Score:         score,
		UpdatedAt:     s.clock.Now(),
	}

	if err := s.storage.UpsertLeaderboardEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetPage returns one page of the leaderboard, highest score first.
// Page 0 and page 1 both mean the first page.
func (s *Service) GetPage(ctx context.Context, project *model.Project, id model.LeaderboardID, page int) (*Page, error) {
	board, err := s.get(ctx, project, id)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, board, page)
}

// GetPublicPage returns a leaderboard page without project scoping,
// for the unauthenticated read endpoint
func (s *Service) GetPublicPage(ctx context.Context, id model.LeaderboardID, page int) (*Page, error) {
	board, err := s.storage.GetLeaderboard(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, board, page)
}

func (s *Service) buildPage(ctx context.Context, board *model.Leaderboard, page int) (*Page, error) {
	total, err := s.storage.CountLeaderboardEntries(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	offset := 0
	if page > 0 {
		offset = (page - 1) * PageSize
	}

	raw, err := s.storage.GetLeaderboardEntries(ctx, board.ID, offset, PageSize)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(raw))
	for _, e := range raw {
		player, err := s.storage.GetPlayer(ctx, e.PlayerID)
		if err != nil {
			return nil, err
		}

		entry := &Entry{
			Player:    player,
			Score:     e.Score,
			UpdatedAt: e.UpdatedAt,
		}

		data, err := s.storage.GetCustomData(ctx, e.PlayerID, board.ProjectID)
		switch {
		case err == nil:
			entry.CustomData = data.Data
		case errors.Is(err, model.ErrCustomDataNotFound):
			// Entry stays without custom data
		default:
			return nil, err
		}

		entries = append(entries, entry)
	}

	return &Page{
		Leaderboard:  board,
		Entries:      entries,
		TotalEntries: total,
		Pages:        (total + PageSize - 1) / PageSize,
	}, nil
}

// get fetches a leaderboard, verifying it belongs to the project
func (s *Service) get(ctx context.Context, project *model.Project, id model.LeaderboardID) (*model.Leaderboard, error) {
	board, err := s.storage.GetLeaderboard(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.ProjectID != project.ID {
		return nil, model.ErrLeaderboardNotFound
	}
	return board, nil
}
