package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tmcnicol/playtrace/internal/api/middleware"
	"github.com/tmcnicol/playtrace/internal/api/request"
	"github.com/tmcnicol/playtrace/internal/api/response"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/services/gameplay"
	"github.com/tmcnicol/playtrace/internal/services/leaderboard"
)

// LeaderboardHandler handles score submission and leaderboard reads
type LeaderboardHandler struct {
	gameplayService    *gameplay.Service
	leaderboardService *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(gameplayService *gameplay.Service, leaderboardService *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		gameplayService:    gameplayService,
		leaderboardService: leaderboardService,
	}
}

// SubmitScore handles POST /api/v1/leaderboards/{id}/scores
func (h *LeaderboardHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ctx := r.Context()
	project, player, err := h.gameplayService.Resolve(ctx, middleware.GetProjectKey(ctx), middleware.GetPlayerID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}

	id := model.LeaderboardID(mux.Vars(r)["id"])
	if _, err := h.leaderboardService.SubmitScore(ctx, project, player, id, req.Score); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPage handles GET /api/v1/leaderboards/{id}?page=N
func (h *LeaderboardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, NewInvalidRequestError("page must be a non-negative integer"))
			return
		}
		page = parsed
	}

	id := model.LeaderboardID(mux.Vars(r)["id"])
	result, err := h.leaderboardService.GetPublicPage(r.Context(), id, page)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardPageFromService(result, page))
}
