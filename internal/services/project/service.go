package project

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tmcnicol/playtrace/internal/dependencies/clock"
	"github.com/tmcnicol/playtrace/internal/dependencies/random"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

const (
	// KeyLength is the length of generated project keys
	KeyLength = 32
	// KeyAlphabet is the characters used in project keys
	KeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// KeyPrefix marks project keys so they are recognizable in configs and logs
	KeyPrefix = "pk_"
)

// Service manages project lifecycle for dashboard users
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new project service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Create registers a new project owned by the given user and issues
// its API key
func (s *Service) Create(ctx context.Context, ownerID model.UserID, name, description string) (*model.Project, error) {
	// Generate a key not already in use
	var key string
	for {
		key = KeyPrefix + s.random.String(KeyLength, KeyAlphabet)
		_, err := s.storage.GetProjectByKey(ctx, key)
		if errors.Is(err, model.ErrProjectNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	project := &model.Project{
		ID:          model.ProjectID(uuid.NewString()),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		ProjectKey:  key,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveProject(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		slog.String("project_id", string(project.ID)),
		slog.String("owner_id", string(ownerID)),
	)

	return project, nil
}

// Get retrieves a project, scoped to its owner. Other users see NotFound.
func (s *Service) Get(ctx context.Context, id model.ProjectID, ownerID model.UserID) (*model.Project, error) {
	project, err := s.storage.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, model.ErrProjectNotFound
	}
	return project, nil
}

// List returns the projects owned by the user, newest first
func (s *Service) List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	return s.storage.ListProjectsByOwner(ctx, ownerID)
}

// Delete removes a project and everything scoped to it
func (s *Service) Delete(ctx context.Context, id model.ProjectID, ownerID model.UserID) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.storage.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		slog.String("project_id", string(id)),
		slog.String("owner_id", string(ownerID)),
	)
	return nil
}
