package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// uniqueViolation is the Postgres error code for unique constraint
// violations; the partial index on open sessions reports through it
const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and applies the schema
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, SchemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a Postgres storage with an existing pool (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name,
		    password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at`,
		string(user.ID), user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE id = $1`, string(id)))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = $1`, email))
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Project operations

func (s *Storage) SaveProject(ctx context.Context, project *model.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, owner_id, project_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description`,
		string(project.ID), project.Name, project.Description,
		string(project.OwnerID), project.ProjectKey, project.CreatedAt)
	return err
}

func (s *Storage) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	return s.scanProject(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, project_key, created_at
		FROM projects WHERE id = $1`, string(id)))
}

func (s *Storage) GetProjectByKey(ctx context.Context, projectKey string) (*model.Project, error) {
	return s.scanProject(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, project_key, created_at
		FROM projects WHERE project_key = $1`, projectKey))
}

func (s *Storage) scanProject(row *sql.Row) (*model.Project, error) {
	var project model.Project
	err := row.Scan(&project.ID, &project.Name, &project.Description,
		&project.OwnerID, &project.ProjectKey, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Storage) ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, owner_id, project_key, created_at
		FROM projects WHERE owner_id = $1
		ORDER BY created_at DESC`, string(ownerID))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []*model.Project
	for rows.Next() {
		var project model.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description,
			&project.OwnerID, &project.ProjectKey, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &project)
	}
	return projects, rows.Err()
}

func (s *Storage) DeleteProject(ctx context.Context, id model.ProjectID) error {
	// Players, sessions, leaderboards and custom data cascade via FKs
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, string(id))
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, external_id, project_id, guest, play_time, last_played, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET guest = EXCLUDED.guest, play_time = EXCLUDED.play_time,
		    last_played = EXCLUDED.last_played`,
		string(player.ID), player.ExternalID, string(player.ProjectID),
		player.Guest, player.PlayTime, player.LastPlayed, player.CreatedAt)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.scanPlayer(s.db.QueryRowContext(ctx, `
		SELECT id, external_id, project_id, guest, play_time, last_played, created_at
		FROM players WHERE id = $1`, string(id)))
}

func (s *Storage) GetPlayerByExternalID(ctx context.Context, externalID string, projectID model.ProjectID) (*model.Player, error) {
	return s.scanPlayer(s.db.QueryRowContext(ctx, `
		SELECT id, external_id, project_id, guest, play_time, last_played, created_at
		FROM players WHERE external_id = $1 AND project_id = $2`,
		externalID, string(projectID)))
}

func (s *Storage) scanPlayer(row *sql.Row) (*model.Player, error) {
	var player model.Player
	err := row.Scan(&player.ID, &player.ExternalID, &player.ProjectID,
		&player.Guest, &player.PlayTime, &player.LastPlayed, &player.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.PlayerSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_sessions (id, player_id, project_id, start_time, end_time, last_heartbeat, created_at)
		VALUES ($1, $2, $3, $4, NULL, NULL, $5)`,
		string(session.ID), string(session.PlayerID), string(session.ProjectID),
		session.StartTime, session.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return model.ErrSessionActive
	}
	return err
}

func (s *Storage) GetOpenSession(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, player_id, project_id, start_time, end_time, last_heartbeat, created_at
		FROM player_sessions
		WHERE player_id = $1 AND project_id = $2 AND end_time IS NULL`,
		string(playerID), string(projectID))

	var session model.PlayerSession
	var endTime, lastHeartbeat sql.NullTime
	err := row.Scan(&session.ID, &session.PlayerID, &session.ProjectID,
		&session.StartTime, &endTime, &lastHeartbeat, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		session.EndTime = &endTime.Time
	}
	if lastHeartbeat.Valid {
		session.LastHeartbeat = &lastHeartbeat.Time
	}
	return &session, nil
}

func (s *Storage) UpdateSessionHeartbeat(ctx context.Context, id model.SessionID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE player_sessions SET last_heartbeat = $2 WHERE id = $1`,
		string(id), at)
	if err != nil {
		return err
	}
	return checkAffected(res, model.ErrNoActiveSession)
}

func (s *Storage) CloseSession(ctx context.Context, id model.SessionID, endTime time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE player_sessions SET end_time = $2 WHERE id = $1`,
		string(id), endTime)
	if err != nil {
		return err
	}
	return checkAffected(res, model.ErrNoActiveSession)
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID, endTime time.Time, playerID model.PlayerID, playTime int64, lastPlayed time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE player_sessions SET end_time = $2 WHERE id = $1`,
		string(id), endTime)
	if err != nil {
		return err
	}
	if err := checkAffected(res, model.ErrNoActiveSession); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE players SET play_time = $2, last_played = $3 WHERE id = $1`,
		string(playerID), playTime, lastPlayed)
	if err != nil {
		return err
	}
	if err := checkAffected(res, model.ErrPlayerNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func checkAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// Leaderboard operations

func (s *Storage) SaveLeaderboard(ctx context.Context, lb *model.Leaderboard) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboards (id, project_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description`,
		string(lb.ID), string(lb.ProjectID), lb.Name, lb.Description, lb.CreatedAt)
	return err
}

func (s *Storage) GetLeaderboard(ctx context.Context, id model.LeaderboardID) (*model.Leaderboard, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, description, created_at
		FROM leaderboards WHERE id = $1`, string(id))

	var lb model.Leaderboard
	err := row.Scan(&lb.ID, &lb.ProjectID, &lb.Name, &lb.Description, &lb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrLeaderboardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

func (s *Storage) ListLeaderboardsForProject(ctx context.Context, projectID model.ProjectID) ([]*model.Leaderboard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, description, created_at
		FROM leaderboards WHERE project_id = $1
		ORDER BY created_at`, string(projectID))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var lbs []*model.Leaderboard
	for rows.Next() {
		var lb model.Leaderboard
		if err := rows.Scan(&lb.ID, &lb.ProjectID, &lb.Name, &lb.Description, &lb.CreatedAt); err != nil {
			return nil, err
		}
		lbs = append(lbs, &lb)
	}
	return lbs, rows.Err()
}

func (s *Storage) DeleteLeaderboard(ctx context.Context, id model.LeaderboardID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM leaderboards WHERE id = $1`, string(id))
	return err
}

func (s *Storage) UpsertLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard_entries (player_id, leaderboard_id, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, leaderboard_id) DO UPDATE
		SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`,
		string(entry.PlayerID), string(entry.LeaderboardID), entry.Score, entry.UpdatedAt)
	return err
}

func (s *Storage) GetLeaderboardEntries(ctx context.Context, id model.LeaderboardID, offset, limit int) ([]*model.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, leaderboard_id, score, updated_at
		FROM leaderboard_entries WHERE leaderboard_id = $1
		ORDER BY score DESC
		LIMIT $2 OFFSET $3`, string(id), limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.PlayerID, &entry.LeaderboardID, &entry.Score, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (s *Storage) CountLeaderboardEntries(ctx context.Context, id model.LeaderboardID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM leaderboard_entries WHERE leaderboard_id = $1`,
		string(id)).Scan(&count)
	return count, err
}

// Custom data operations

func (s *Storage) SaveCustomData(ctx context.Context, data *model.PlayerCustomData) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_custom_data (player_id, project_id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, project_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		string(data.PlayerID), string(data.ProjectID), data.Data, data.UpdatedAt)
	return err
}

func (s *Storage) GetCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerCustomData, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT player_id, project_id, data, updated_at
		FROM player_custom_data WHERE player_id = $1 AND project_id = $2`,
		string(playerID), string(projectID))

	var data model.PlayerCustomData
	err := row.Scan(&data.PlayerID, &data.ProjectID, &data.Data, &data.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCustomDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *Storage) DeleteCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM player_custom_data WHERE player_id = $1 AND project_id = $2`,
		string(playerID), string(projectID))
	if err != nil {
		return err
	}
	return checkAffected(res, model.ErrCustomDataNotFound)
}
