package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/org-hierarchy-api/internal/closure"
	"github.com/org-hierarchy-api/internal/domain"
	"github.com/org-hierarchy-api/internal/dto"
	"github.com/org-hierarchy-api/internal/service"
)

type TeamHandler struct {
	teamService service.TeamService
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewTeamHandler(teamService service.TeamService, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		validator:   validator.New(),
		logger:      logger,
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	team, err := h.teamService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.toTeamResponse(team))
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid team id", err.Error())
		return
	}

	query := h.parseGetQuery(r)
	if err := h.validator.Struct(&query); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id, &query)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid team id", err.Error())
		return
	}

	ancestors, err := h.teamService.GetAncestors(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ancestors)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid team id", err.Error())
		return
	}

	var req dto.UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	team, err := h.teamService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.toTeamResponse(team))
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid team id", err.Error())
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) extractID(r *http.Request) (int64, error) {
	path := strings.TrimPrefix(r.URL.Path, "/teams/")
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, "/ancestors")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, errors.New("id is required")
	}

	return strconv.ParseInt(parts[0], 10, 64)
}

func (h *TeamHandler) parseGetQuery(r *http.Request) dto.GetTeamQuery {
	query := dto.GetTeamQuery{Depth: 1}

	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		if depth, err := strconv.Atoi(depthStr); err == nil {
			query.Depth = depth
		}
	}

	return query
}

func (h *TeamHandler) toTeamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		Lead:      team.Lead,
		ParentID:  team.ParentID,
		CreatedAt: team.CreatedAt,
	}
}

func (h *TeamHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTeamNotFound), errors.Is(err, closure.ErrNodeNotFound):
		h.respondError(w, http.StatusNotFound, "team not found", "")
	case errors.Is(err, closure.ErrParentNotFound):
		h.respondError(w, http.StatusNotFound, "parent team not found", "")
	case errors.Is(err, domain.ErrDuplicateTeamName):
		h.respondError(w, http.StatusConflict, "team with this name already exists", "")
	case errors.Is(err, closure.ErrDuplicateNode), errors.Is(err, closure.ErrDuplicateClosure):
		h.respondError(w, http.StatusConflict, "team already exists in hierarchy", "")
	case errors.Is(err, closure.ErrSelfParent):
		h.respondError(w, http.StatusBadRequest, "team cannot be its own parent", "")
	case errors.Is(err, closure.ErrCycle):
		h.respondError(w, http.StatusConflict, "moving team would create a cycle", "")
	case errors.Is(err, closure.ErrStore):
		h.logger.Error("closure store error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *TeamHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *TeamHandler) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
