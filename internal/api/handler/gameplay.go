package handler

import (
	"net/http"

	"github.com/tmcnicol/playtrace/internal/api/middleware"
	"github.com/tmcnicol/playtrace/internal/api/response"
	"github.com/tmcnicol/playtrace/internal/services/gameplay"
)

// GameplayHandler handles the game-client session lifecycle endpoints
type GameplayHandler struct {
	gameplayService *gameplay.Service
}

// NewGameplayHandler creates a new gameplay handler
func NewGameplayHandler(gameplayService *gameplay.Service) *GameplayHandler {
	return &GameplayHandler{
		gameplayService: gameplayService,
	}
}

// Start handles POST /api/v1/gameplay/start
func (h *GameplayHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project, player, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.gameplayService.Start(ctx, project, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Heartbeat handles POST /api/v1/gameplay/heartbeat
func (h *GameplayHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project, player, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.gameplayService.Heartbeat(ctx, project, player); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// End handles POST /api/v1/gameplay/end
func (h *GameplayHandler) End(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project, player, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	duration, err := h.gameplayService.End(ctx, project, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EndSessionResponse{DurationSeconds: duration})
}
