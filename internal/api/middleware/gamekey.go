package middleware

import (
	"context"
	"net/http"
)

// Header names used by game clients to identify themselves
const (
	ProjectKeyHeader = "X-Project-Key"
	PlayerIDHeader   = "X-Player-Id"
)

const (
	projectKeyContextKey contextKey = "project_key"
	playerIDContextKey   contextKey = "player_id"
)

// GameKey extracts the game-client credential headers into the request
// context. Missing headers flow through as empty strings; the gameplay
// service rejects them so the response is a 400, not a 401.
func GameKey() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, projectKeyContextKey, r.Header.Get(ProjectKeyHeader))
			ctx = context.WithValue(ctx, playerIDContextKey, r.Header.Get(PlayerIDHeader))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProjectKey returns the game client's project key from the context
func GetProjectKey(ctx context.Context) string {
	key, _ := ctx.Value(projectKeyContextKey).(string)
	return key
}

// GetPlayerID returns the game client's external player id from the context
func GetPlayerID(ctx context.Context) string {
	id, _ := ctx.Value(playerIDContextKey).(string)
	return id
}
