package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tmcnicol/playtrace/internal/dependencies/clock"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// Service manages player registration and per-player custom data
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a player within a project. The external id is
// supplied by the game client and must be unique within the project.
func (s *Service) Register(ctx context.Context, project *model.Project, externalID string, guest bool) (*model.Player, error) {
	_, err := s.storage.GetPlayerByExternalID(ctx, externalID, project.ID)
	if err == nil {
		return nil, model.ErrPlayerExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:         model.PlayerID(uuid.NewString()),
		ExternalID: externalID,
		ProjectID:  project.ID,
		Guest:      guest,
		PlayTime:   0,
		LastPlayed: now,
		CreatedAt:  now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("project_id", string(project.ID)),
		slog.Bool("guest", guest),
	)

	return player, nil
}

// SetCustomData attaches (or replaces) the player's custom data blob
func (s *Service) SetCustomData(ctx context.Context, project *model.Project, player *model.Player, data string) (*model.PlayerCustomData, error) {
	if len(data) > model.CustomDataMaxLen {
		return nil, model.ErrCustomDataTooLong
	}

	record := &model.PlayerCustomData{
		PlayerID:  player.ID,
		ProjectID: project.ID,
		Data:      data,
		UpdatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveCustomData(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetCustomData returns the player's custom data blob
func (s *Service) GetCustomData(ctx context.Context, project *model.Project, player *model.Player) (*model.PlayerCustomData, error) {
	return s.storage.GetCustomData(ctx, player.ID, project.ID)
}

// DeleteCustomData removes the player's custom data blob
func (s *Service) DeleteCustomData(ctx context.Context, project *model.Project, player *model.Player) error {
	return s.storage.DeleteCustomData(ctx, player.ID, project.ID)
}
