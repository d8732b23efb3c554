package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tmcnicol/playtrace/internal/api/middleware"
	"github.com/tmcnicol/playtrace/internal/api/request"
	"github.com/tmcnicol/playtrace/internal/api/response"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/services/gameplay"
	"github.com/tmcnicol/playtrace/internal/services/player"
)

// PlayerHandler handles game-client player endpoints
type PlayerHandler struct {
	gameplayService *gameplay.Service
	playerService   *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(gameplayService *gameplay.Service, playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		gameplayService: gameplayService,
		playerService:   playerService,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ctx := r.Context()

	playerID := middleware.GetPlayerID(ctx)
	if playerID == "" {
		WriteError(w, model.ErrMissingCredentials)
		return
	}

	project, err := h.gameplayService.ResolveProject(ctx, middleware.GetProjectKey(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	registered, err := h.playerService.Register(ctx, project, playerID, req.Guest)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(registered))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, resolved, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(resolved))
}

// SetCustomData handles PUT /api/v1/players/data
func (h *PlayerHandler) SetCustomData(w http.ResponseWriter, r *http.Request) {
	var req request.SetCustomDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ctx := r.Context()
	project, resolved, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	data, err := h.playerService.SetCustomData(ctx, project, resolved, req.Data)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CustomDataFromModel(data))
}

// GetCustomData handles GET /api/v1/players/data
func (h *PlayerHandler) GetCustomData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project, resolved, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	data, err := h.playerService.GetCustomData(ctx, project, resolved)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CustomDataFromModel(data))
}

// DeleteCustomData handles DELETE /api/v1/players/data
func (h *PlayerHandler) DeleteCustomData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	project, resolved, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.playerService.DeleteCustomData(ctx, project, resolved); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
