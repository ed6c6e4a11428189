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

type DepartmentHandler struct {
	deptService service.DepartmentService
	empService  service.EmployeeService
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewDepartmentHandler(
	deptService service.DepartmentService,
	empService service.EmployeeService,
	logger *slog.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		deptService: deptService,
		empService:  empService,
		validator:   validator.New(),
		logger:      logger,
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.toDepartmentResponse(dept))
}

func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	query := h.parseGetQuery(r)
	if err := h.validator.Struct(&query); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.GetByID(r.Context(), id, &query)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dept)
}

func (h *DepartmentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.deptService.GetTree(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tree)
}

func (h *DepartmentHandler) GetAncestors(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	ancestors, err := h.deptService.GetAncestors(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ancestors)
}

func (h *DepartmentHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	children, err := h.deptService.GetChildren(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, children)
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.toDepartmentResponse(dept))
}

func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	query := h.parseDeleteQuery(r)
	if err := h.validator.Struct(&query); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	if err := h.deptService.Delete(r.Context(), id, &query); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DepartmentHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	deptID, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	emp, err := h.empService.Create(r.Context(), deptID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.toEmployeeResponse(emp))
}

func (h *DepartmentHandler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	deptID, err := h.extractID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}

	employees, err := h.empService.GetByDepartmentID(r.Context(), deptID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	result := make([]dto.EmployeeResponse, len(employees))
	for i, emp := range employees {
		result[i] = h.toEmployeeResponse(&emp)
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *DepartmentHandler) extractID(r *http.Request) (int64, error) {
	path := strings.TrimPrefix(r.URL.Path, "/departments/")
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, "/employees")
	path = strings.TrimSuffix(path, "/ancestors")
	path = strings.TrimSuffix(path, "/children")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, errors.New("id is required")
	}

	return strconv.ParseInt(parts[0], 10, 64)
}

func (h *DepartmentHandler) parseGetQuery(r *http.Request) dto.GetDepartmentQuery {
	query := dto.GetDepartmentQuery{
		Depth:            1,
		IncludeEmployees: true,
	}

	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		if depth, err := strconv.Atoi(depthStr); err == nil {
			query.Depth = depth
		}
	}

	if includeStr := r.URL.Query().Get("include_employees"); includeStr != "" {
		query.IncludeEmployees = includeStr == "true"
	}

	return query
}

func (h *DepartmentHandler) parseDeleteQuery(r *http.Request) dto.DeleteDepartmentQuery {
	query := dto.DeleteDepartmentQuery{
		Mode: r.URL.Query().Get("mode"),
	}

	if reassignStr := r.URL.Query().Get("reassign_to_department_id"); reassignStr != "" {
		if reassignID, err := strconv.ParseInt(reassignStr, 10, 64); err == nil {
			query.ReassignToDepartmentID = &reassignID
		}
	}

	return query
}

func (h *DepartmentHandler) toDepartmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ParentID:  dept.ParentID,
		CreatedAt: dept.CreatedAt,
	}
}

func (h *DepartmentHandler) toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           emp.ID,
		DepartmentID: emp.DepartmentID,
		FullName:     emp.FullName,
		Position:     emp.Position,
		CreatedAt:    emp.CreatedAt,
	}

	if emp.HiredAt != nil {
		hiredAt := emp.HiredAt.Format("2006-01-02")
		resp.HiredAt = &hiredAt
	}

	return resp
}

func (h *DepartmentHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDepartmentNotFound), errors.Is(err, closure.ErrNodeNotFound):
		h.respondError(w, http.StatusNotFound, "department not found", "")
	case errors.Is(err, closure.ErrParentNotFound):
		h.respondError(w, http.StatusNotFound, "parent department not found", "")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.respondError(w, http.StatusNotFound, "employee not found", "")
	case errors.Is(err, domain.ErrDuplicateDepartmentName):
		h.respondError(w, http.StatusConflict, "department with this name already exists", "")
	case errors.Is(err, closure.ErrDuplicateNode), errors.Is(err, closure.ErrDuplicateClosure):
		h.respondError(w, http.StatusConflict, "department already exists in hierarchy", "")
	case errors.Is(err, closure.ErrSelfParent):
		h.respondError(w, http.StatusBadRequest, "department cannot be its own parent", "")
	case errors.Is(err, closure.ErrCycle):
		h.respondError(w, http.StatusConflict, "moving department would create a cycle", "")
	case errors.Is(err, domain.ErrInvalidDeleteMode):
		h.respondError(w, http.StatusBadRequest, "invalid delete mode, use 'cascade' or 'reassign'", "")
	case errors.Is(err, domain.ErrReassignTargetRequired):
		h.respondError(w, http.StatusBadRequest, "reassign_to_department_id is required when mode is reassign", "")
	case errors.Is(err, domain.ErrReassignTargetNotFound):
		h.respondError(w, http.StatusNotFound, "target department for reassignment not found", "")
	case errors.Is(err, domain.ErrCannotReassignToSelf):
		h.respondError(w, http.StatusBadRequest, "cannot reassign into the subtree being deleted", "")
	case errors.Is(err, closure.ErrStore):
		h.logger.Error("closure store error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *DepartmentHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *DepartmentHandler) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
