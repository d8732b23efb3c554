package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users        map[model.UserID]*model.User
	emailIndex   map[string]model.UserID
	projects     map[model.ProjectID]*model.Project
	keyIndex     map[string]model.ProjectID
	players      map[model.PlayerID]*model.Player
	sessions     map[model.SessionID]*model.PlayerSession
	openSessions map[sessionKey]model.SessionID
	leaderboards map[model.LeaderboardID]*model.Leaderboard
	entries      map[entryKey]*model.LeaderboardEntry
	customData   map[sessionKey]*model.PlayerCustomData
}

type sessionKey struct {
	playerID  model.PlayerID
	projectID model.ProjectID
}

type entryKey struct {
	playerID      model.PlayerID
	leaderboardID model.LeaderboardID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:        make(map[model.UserID]*model.User),
		emailIndex:   make(map[string]model.UserID),
		projects:     make(map[model.ProjectID]*model.Project),
		keyIndex:     make(map[string]model.ProjectID),
		players:      make(map[model.PlayerID]*model.Player),
		sessions:     make(map[model.SessionID]*model.PlayerSession),
		openSessions: make(map[sessionKey]model.SessionID),
		leaderboards: make(map[model.LeaderboardID]*model.Leaderboard),
		entries:      make(map[entryKey]*model.LeaderboardEntry),
		customData:   make(map[sessionKey]*model.PlayerCustomData),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Project operations

func (s *Storage) SaveProject(ctx context.Context, project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	s.keyIndex[project.ProjectKey] = project.ID
	return nil
}

func (s *Storage) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	return project, nil
}

func (s *Storage) GetProjectByKey(ctx context.Context, projectKey string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.keyIndex[projectKey]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	project, ok := s.projects[id]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	return project, nil
}

func (s *Storage) ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var projects []*model.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *Storage) DeleteProject(ctx context.Context, id model.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil
	}
	delete(s.keyIndex, project.ProjectKey)
	delete(s.projects, id)

	for pid, p := range s.players {
		if p.ProjectID == id {
			delete(s.players, pid)
		}
	}
	for sid, sess := range s.sessions {
		if sess.ProjectID == id {
			delete(s.sessions, sid)
		}
	}
	for key := range s.openSessions {
		if key.projectID == id {
			delete(s.openSessions, key)
		}
	}
	for key := range s.customData {
		if key.projectID == id {
			delete(s.customData, key)
		}
	}
	for lid, lb := range s.leaderboards {
		if lb.ProjectID == id {
			for key := range s.entries {
				if key.leaderboardID == lid {
					delete(s.entries, key)
				}
			}
			delete(s.leaderboards, lid)
		}
	}
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByExternalID(ctx context.Context, externalID string, projectID model.ProjectID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ExternalID == externalID && p.ProjectID == projectID {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.PlayerSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{playerID: session.PlayerID, projectID: session.ProjectID}
	if _, exists := s.openSessions[key]; exists {
		return model.ErrSessionActive
	}
	s.sessions[session.ID] = session
	s.openSessions[key] = session.ID
	return nil
}

func (s *Storage) GetOpenSession(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := sessionKey{playerID: playerID, projectID: projectID}
	id, ok := s.openSessions[key]
	if !ok {
		return nil, model.ErrNoActiveSession
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrNoActiveSession
	}
	return session, nil
}

func (s *Storage) UpdateSessionHeartbeat(ctx context.Context, id model.SessionID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.ErrNoActiveSession
	}
	hb := at
	session.LastHeartbeat = &hb
	return nil
}

func (s *Storage) CloseSession(ctx context.Context, id model.SessionID, endTime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked(id, endTime)
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID, endTime time.Time, playerID model.PlayerID, playTime int64, lastPlayed time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if err := s.closeLocked(id, endTime); err != nil {
		return err
	}
	player.PlayTime = playTime
	player.LastPlayed = lastPlayed
	return nil
}

func (s *Storage) closeLocked(id model.SessionID, endTime time.Time) error {
	session, ok := s.sessions[id]
	if !ok {
		return model.ErrNoActiveSession
	}
	end := endTime
	session.EndTime = &end
	delete(s.openSessions, sessionKey{playerID: session.PlayerID, projectID: session.ProjectID})
	return nil
}

// Leaderboard operations

func (s *Storage) SaveLeaderboard(ctx context.Context, lb *model.Leaderboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboards[lb.ID] = lb
	return nil
}

func (s *Storage) GetLeaderboard(ctx context.Context, id model.LeaderboardID) (*model.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lb, ok := s.leaderboards[id]
	if !ok {
		return nil, model.ErrLeaderboardNotFound
	}
	return lb, nil
}

func (s *Storage) ListLeaderboardsForProject(ctx context.Context, projectID model.ProjectID) ([]*model.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var lbs []*model.Leaderboard
	for _, lb := range s.leaderboards {
		if lb.ProjectID == projectID {
			lbs = append(lbs, lb)
		}
	}
	sort.Slice(lbs, func(i, j int) bool {
		return lbs[i].CreatedAt.Before(lbs[j].CreatedAt)
	})
	return lbs, nil
}

func (s *Storage) DeleteLeaderboard(ctx context.Context, id model.LeaderboardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if key.leaderboardID == id {
			delete(s.entries, key)
		}
	}
	delete(s.leaderboards, id)
	return nil
}

func (s *Storage) UpsertLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entryKey{playerID: entry.PlayerID, leaderboardID: entry.LeaderboardID}
	s.entries[key] = entry
	return nil
}

func (s *Storage) GetLeaderboardEntries(ctx context.Context, id model.LeaderboardID, offset, limit int) ([]*model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []*model.LeaderboardEntry
	for key, e := range s.entries {
		if key.leaderboardID == id {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Storage) CountLeaderboardEntries(ctx context.Context, id model.LeaderboardID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.entries {
		if key.leaderboardID == id {
			count++
		}
	}
	return count, nil
}

// Custom data operations

func (s *Storage) SaveCustomData(ctx context.Context, data *model.PlayerCustomData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{playerID: data.PlayerID, projectID: data.ProjectID}
	s.customData[key] = data
	return nil
}

func (s *Storage) GetCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) (*model.PlayerCustomData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := sessionKey{playerID: playerID, projectID: projectID}
	data, ok := s.customData[key]
	if !ok {
		return nil, model.ErrCustomDataNotFound
	}
	return data, nil
}

func (s *Storage) DeleteCustomData(ctx context.Context, playerID model.PlayerID, projectID model.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{playerID: playerID, projectID: projectID}
	if _, ok := s.customData[key]; !ok {
		return model.ErrCustomDataNotFound
	}
	delete(s.customData, key)
	return nil
}
