package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmcnicol/playtrace/internal/api/handler"
	"github.com/tmcnicol/playtrace/internal/api/middleware"
	"github.com/tmcnicol/playtrace/internal/services/auth"
	"github.com/tmcnicol/playtrace/internal/services/gameplay"
	"github.com/tmcnicol/playtrace/internal/services/leaderboard"
	"github.com/tmcnicol/playtrace/internal/services/player"
	"github.com/tmcnicol/playtrace/internal/services/project"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	ProjectService     *project.Service
	PlayerService      *player.Service
	GameplayService    *gameplay.Service
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	projectHandler := handler.NewProjectHandler(cfg.ProjectService, cfg.LeaderboardService)
	playerHandler := handler.NewPlayerHandler(cfg.GameplayService, cfg.PlayerService)
	gameplayHandler := handler.NewGameplayHandler(cfg.GameplayService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.GameplayService, cfg.LeaderboardService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	gameKeyMiddleware := middleware.GameKey()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Dashboard auth routes (no auth required for register/login)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected dashboard auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Project routes (all require dashboard auth)
	projects := api.PathPrefix("/projects").Subrouter()
	projects.Use(authMiddleware)
	projects.HandleFunc("", projectHandler.Create).Methods(http.MethodPost)
	projects.HandleFunc("", projectHandler.List).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", projectHandler.Get).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", projectHandler.Delete).Methods(http.MethodDelete)
	projects.HandleFunc("/{id}/leaderboards", projectHandler.CreateLeaderboard).Methods(http.MethodPost)
	projects.HandleFunc("/{id}/leaderboards", projectHandler.ListLeaderboards).Methods(http.MethodGet)
	projects.HandleFunc("/{id}/leaderboards/{leaderboard_id}", projectHandler.DeleteLeaderboard).Methods(http.MethodDelete)

	// Game-client routes (identified by project key + player id headers)
	gameplayRoutes := api.PathPrefix("/gameplay").Subrouter()
	gameplayRoutes.Use(gameKeyMiddleware)
	gameplayRoutes.HandleFunc("/start", gameplayHandler.Start).Methods(http.MethodPost)
	gameplayRoutes.HandleFunc("/heartbeat", gameplayHandler.Heartbeat).Methods(http.MethodPost)
	gameplayRoutes.HandleFunc("/end", gameplayHandler.End).Methods(http.MethodPost)

	players := api.PathPrefix("/players").Subrouter()
	players.Use(gameKeyMiddleware)
	players.HandleFunc("", playerHandler.Register).Methods(http.MethodPost)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/data", playerHandler.SetCustomData).Methods(http.MethodPut)
	players.HandleFunc("/data", playerHandler.GetCustomData).Methods(http.MethodGet)
	players.HandleFunc("/data", playerHandler.DeleteCustomData).Methods(http.MethodDelete)

	// Score submission is a game-client write, page reads are public
	boards := api.PathPrefix("/leaderboards").Subrouter()
	boards.Use(gameKeyMiddleware)
	boards.HandleFunc("/{id}/scores", leaderboardHandler.SubmitScore).Methods(http.MethodPost)
	boards.HandleFunc("/{id}", leaderboardHandler.GetPage).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
