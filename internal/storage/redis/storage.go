package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(user.Email), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

// Project operations

func (s *Storage) SaveProject(ctx context.Context, project *model.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, projectKey(project.ID), data, 0)
	pipe.Set(ctx, projectKeyIndexKey(project.ProjectKey), string(project.ID), 0)
	pipe.SAdd(ctx, ownerProjectsKey(project.OwnerID), string(project.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	data, err := s.client.Get(ctx, projectKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}

	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Storage) GetProjectByKey(ctx context.Context, key string) (*model.Project, error) {
	idStr, err := s.client.Get(ctx, projectKeyIndexKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}

	return s.GetProject(ctx, model.ProjectID(idStr))
}

func (s *Storage) ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	ids, err := s.client.SMembers(ctx, ownerProjectsKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}

	var projects []*model.Project
	for _, id := range ids {
		project, err := s.GetProject(ctx, model.ProjectID(id))
		if err != nil {
			if errors.Is(err, model.ErrProjectNotFound) {
				continue
			}
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (s *Storage) DeleteProject(ctx context.Context, id model.ProjectID) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			return nil
		}
		return err
	}

	// Collect scoped entities before deleting
	playerIDs, err := s.client.SMembers(ctx, projectPlayersKey(id)).Result()
	if err != nil {
		return err
	}
	sessionIDs, err := s.client.SMembers(ctx, projectSessionsKey(id)).Result()
	if err != nil {
		return err
	}
	leaderboardIDs, err := s.client.SMembers(ctx, projectLeaderboardsKey(id)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, pidStr := range playerIDs {
		pid := model.PlayerID(pidStr)
		if player, err := s.GetPlayer(ctx, pid); err == nil {
			pipe.Del(ctx, externalPlayerKey(id, player.ExternalID))
		}
		pipe.Del(ctx, playerKey(pid))
		pipe.Del(ctx, openSessionKey(id, pid))
		pipe.Del(ctx, customDataKey(id, pid))
	}
	for _, sid := range sessionIDs {
		pipe.Del(ctx, sessionKey(model.SessionID(sid)))
	}
	for _, lid := range leaderboardIDs {
		pipe.Del(ctx, leaderboardKey(model.LeaderboardID(lid)))
		pipe.Del(ctx, leaderboardEntriesKey(model.LeaderboardID(lid)))
	}
	pipe.Del(ctx, projectPlayersKey(id))
	pipe.Del(ctx, projectSessionsKey(id))
	pipe.Del(ctx, projectLeaderboardsKey(id))
	pipe.Del(ctx, projectKeyIndexKey(project.ProjectKey))
	pipe.SRem(ctx, ownerProjectsKey(project.OwnerID), string(id))
	pipe.Del(ctx, projectKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.Set(ctx, externalPlayerKey(player.ProjectID, player.ExternalID), string(player.ID), 0)
	pipe.SAdd(ctx, projectPlayersKey(player.ProjectID), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByExternalID(ctx context.Context, externalID string, projectID model.ProjectID) (*model.Player, error) {
	idStr, err := s.client.Get(ctx, externalPlayerKey(projectID, externalID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(idStr))
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.PlayerSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// SETNX on the open-session pointer enforces at most one open
	// session per (player, project) pair against racing starts
	openKey := openSessionKey(session.ProjectID, session.PlayerID)
	ok, err := s.client.SetNX(ctx, openKey, string(session.ID), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrSessionActive
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, 0)
	pipe.SAdd(ctx, projectSessionsKey(session.ProjectID), string(session.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetOpenSession(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerSession, error) {
	idStr, err := s.client.Get(ctx, openSessionKey(projectID, playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoActiveSession
		}
		return nil, err
	}

	return s.getSession(ctx, model.SessionID(idStr))
}

func (s *Storage) getSession(ctx context.Context, id model.SessionID) (*model.PlayerSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoActiveSession
		}
		return nil, err
	}

	var session model.PlayerSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) UpdateSessionHeartbeat(ctx context.Context, id model.SessionID, at time.Time) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}

	hb := at
	session.LastHeartbeat = &hb

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(id), data, 0).Err()
}

func (s *Storage) CloseSession(ctx context.Context, id model.SessionID, endTime time.Time) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}

	end := endTime
	session.EndTime = &end

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(id), data, 0)
	pipe.Del(ctx, openSessionKey(session.ProjectID, session.PlayerID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID, endTime time.Time, playerID model.PlayerID, playTime int64, lastPlayed time.Time) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}
	player, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	end := endTime
	session.EndTime = &end
	player.PlayTime = playTime
	player.LastPlayed = lastPlayed

	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}
	playerData, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Single transactional pipeline so the close and the playtime
	// accrual land together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(id), sessionData, 0)
	pipe.Set(ctx, playerKey(playerID), playerData, 0)
	pipe.Del(ctx, openSessionKey(session.ProjectID, session.PlayerID))
	_, err = pipe.Exec(ctx)
	return err
}

// Leaderboard operations

func (s *Storage) SaveLeaderboard(ctx context.Context, lb *model.Leaderboard) error {
	data, err := json.Marshal(lb)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, leaderboardKey(lb.ID), data, 0)
	pipe.SAdd(ctx, projectLeaderboardsKey(lb.ProjectID), string(lb.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLeaderboard(ctx context.Context, id model.LeaderboardID) (*model.Leaderboard, error) {
	data, err := s.client.Get(ctx, leaderboardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLeaderboardNotFound
		}
		return nil, err
	}

	var lb model.Leaderboard
	if err := json.Unmarshal(data, &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

func (s *Storage) ListLeaderboardsForProject(ctx context.Context, projectID model.ProjectID) ([]*model.Leaderboard, error) {
	ids, err := s.client.SMembers(ctx, projectLeaderboardsKey(projectID)).Result()
	if err != nil {
		return nil, err
	}

	var lbs []*model.Leaderboard
	for _, id := range ids {
		lb, err := s.GetLeaderboard(ctx, model.LeaderboardID(id))
		if err != nil {
			if errors.Is(err, model.ErrLeaderboardNotFound) {
				continue
			}
			return nil, err
		}
		lbs = append(lbs, lb)
	}
	return lbs, nil
}

func (s *Storage) DeleteLeaderboard(ctx context.Context, id model.LeaderboardID) error {
	lb, err := s.GetLeaderboard(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrLeaderboardNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, leaderboardEntriesKey(id))
	pipe.SRem(ctx, projectLeaderboardsKey(lb.ProjectID), string(id))
	pipe.Del(ctx, leaderboardKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpsertLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	return s.client.ZAdd(ctx, leaderboardEntriesKey(entry.LeaderboardID), redis.Z{
		Score:  float64(entry.Score),
		Member: string(entry.PlayerID),
	}).Err()
}

func (s *Storage) GetLeaderboardEntries(ctx context.Context, id model.LeaderboardID, offset, limit int) ([]*model.LeaderboardEntry, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, leaderboardEntriesKey(id), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, &model.LeaderboardEntry{
			PlayerID:      model.PlayerID(member),
			LeaderboardID: id,
			Score:         int64(z.Score),
		})
	}
	return entries, nil
}

func (s *Storage) CountLeaderboardEntries(ctx context.Context, id model.LeaderboardID) (int, error) {
	count, err := s.client.ZCard(ctx, leaderboardEntriesKey(id)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Custom data operations

func (s *Storage) SaveCustomData(ctx context.Context, data *model.PlayerCustomData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, customDataKey(data.ProjectID, data.PlayerID), payload, 0).Err()
}

func (s *Storage) GetCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerCustomData, error) {
	payload, err := s.client.Get(ctx, customDataKey(projectID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCustomDataNotFound
		}
		return nil, err
	}

	var data model.PlayerCustomData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *Storage) DeleteCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) error {
	deleted, err := s.client.Del(ctx, customDataKey(projectID, playerID)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return model.ErrCustomDataNotFound
	}
	return nil
}
