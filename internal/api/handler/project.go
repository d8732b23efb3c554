package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmcnicol/playtrace/internal/api/middleware"
	"github.com/tmcnicol/playtrace/internal/api/request"
	"github.com/tmcnicol/playtrace/internal/api/response"
	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/services/leaderboard"
	"github.com/tmcnicol/playtrace/internal/services/project"
)

// ProjectHandler handles dashboard project management endpoints
type ProjectHandler struct {
	projectService     *project.Service
	leaderboardService *leaderboard.Service
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *project.Service, leaderboardService *leaderboard.Service) *ProjectHandler {
	return &ProjectHandler{
		projectService:     projectService,
		leaderboardService: leaderboardService,
	}
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	user := middleware.MustGetUser(r.Context())
	created, err := h.projectService.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ProjectFromModel(created))
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	projects, err := h.projectService.List(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectListFromModels(projects))
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.ProjectID(mux.Vars(r)["id"])

	found, err := h.projectService.Get(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectFromModel(found))
}

// Delete handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.ProjectID(mux.Vars(r)["id"])

	if err := h.projectService.Delete(r.Context(), id, user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// CreateLeaderboard handles POST /api/v1/projects/{id}/leaderboards
func (h *ProjectHandler) CreateLeaderboard(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLeaderboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	user := middleware.MustGetUser(r.Context())
	owned, err := h.projectService.Get(r.Context(), model.ProjectID(mux.Vars(r)["id"]), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	board, err := h.leaderboardService.Create(r.Context(), owned, req.Name, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LeaderboardFromModel(board))
}

// ListLeaderboards handles GET /api/v1/projects/{id}/leaderboards
func (h *ProjectHandler) ListLeaderboards(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	owned, err := h.projectService.Get(r.Context(), model.ProjectID(mux.Vars(r)["id"]), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	boards, err := h.leaderboardService.List(r.Context(), owned)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardListFromModels(boards))
}

// DeleteLeaderboard handles DELETE /api/v1/projects/{id}/leaderboards/{leaderboard_id}
func (h *ProjectHandler) DeleteLeaderboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)

	owned, err := h.projectService.Get(r.Context(), model.ProjectID(vars["id"]), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.leaderboardService.Delete(r.Context(), owned, model.LeaderboardID(vars["leaderboard_id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
