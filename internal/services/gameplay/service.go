package gameplay

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tmcnicol/playtrace/internal/dependencies/clock"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// Expiration is the maximum allowed gap between heartbeats (or between
// session start and the first heartbeat) before a session is considered
// dead
const Expiration = 10 * time.Minute

// Service owns the session lifecycle: opening, renewing and closing a
// player's play session, and converting elapsed wall-clock time into
// accrued playtime
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new gameplay service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Resolve is the shared precondition for all gameplay operations: it
// maps the game client's (projectKey, playerID) credentials to the
// stored project and player
func (s *Service) Resolve(ctx context.Context, projectKey, playerID string) (*model.Project, *model.Player, error) {
	if playerID == "" {
		return nil, nil, model.ErrMissingCredentials
	}

	project, err := s.ResolveProject(ctx, projectKey)
	if err != nil {
		return nil, nil, err
	}

	player, err := s.storage.GetPlayerByExternalID(ctx, playerID, project.ID)
	if err != nil {
		return nil, nil, err
	}

	return project, player, nil
}

// ResolveProject maps a project key alone to its project, for
// operations that run before the player exists
func (s *Service) ResolveProject(ctx context.Context, projectKey string) (*model.Project, error) {
	if projectKey == "" {
		return nil, model.ErrMissingCredentials
	}
	return s.storage.GetProjectByKey(ctx, projectKey)
}

// Start opens a new session for the player. Fails with
// model.ErrSessionActive if one is already open; the storage layer
// enforces the at-most-one-open invariant at insert, which also covers
// racing starts from the same player.
func (s *Service) Start(ctx context.Context, project *model.Project, player *model.Player) (*model.PlayerSession, error) {
	now := s.clock.Now()

	session := &model.PlayerSession{
		ID:        model.SessionID(uuid.NewString()),
		PlayerID:  player.ID,
		ProjectID: project.ID,
		StartTime: now,
		CreatedAt: now,
	}

	if err := s.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		slog.String("session_id", string(session.ID)),
		slog.String("project_id", string(project.ID)),
		slog.String("player_id", string(player.ID)),
	)

	return session, nil
}

// Heartbeat renews the liveness of the player's open session. If the
// gap since the last sign of life exceeds Expiration the session is
// closed at the current time and model.ErrSessionExpired is returned;
// the store mutation happens even though the call reports an error, so
// the client learns it must start a fresh session.
func (s *Service) Heartbeat(ctx context.Context, project *model.Project, player *model.Player) error {
	session, err := s.storage.GetOpenSession(ctx, player.ID, project.ID)
	if err != nil {
		return err
	}

	now := s.clock.Now()

	// Before the first heartbeat the reference point is the session
	// start, so a client that never heartbeats still expires
	last := session.StartTime
	if session.LastHeartbeat != nil {
		last = *session.LastHeartbeat
	}

	if now.Sub(last) > Expiration {
		if err := s.storage.CloseSession(ctx, session.ID, now); err != nil {
			return err
		}
		s.logger.Info("session expired on heartbeat",
			slog.String("session_id", string(session.ID)),
			slog.String("player_id", string(player.ID)),
			slog.Duration("gap", now.Sub(last)),
		)
		return model.ErrSessionExpired
	}

	return s.storage.UpdateSessionHeartbeat(ctx, session.ID, now)
}

// End closes the player's open session and credits the duration to the
// player's cumulative playtime. When the client went silent for longer
// than Expiration, the end is back-dated to lastHeartbeat + Expiration
// so the silent gap is not credited. Returns the credited duration in
// whole seconds.
func (s *Service) End(ctx context.Context, project *model.Project, player *model.Player) (int64, error) {
	session, err := s.storage.GetOpenSession(ctx, player.ID, project.ID)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()

	end := now
	if session.LastHeartbeat != nil {
		if now.Sub(*session.LastHeartbeat) > Expiration {
			end = session.LastHeartbeat.Add(Expiration)
		}
	}

	duration := int64(end.Sub(session.StartTime) / time.Second)

	// Close and accrue as one atomic unit
	if err := s.storage.FinishSession(ctx, session.ID, end, player.ID, player.PlayTime+duration, end); err != nil {
		return 0, err
	}

	s.logger.Info("session ended",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(player.ID)),
		slog.Int64("duration_seconds", duration),
	)

	return duration, nil
}
