package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// ProjectHandler handles project endpoints, including scope of work
// submission which kicks off the document pipeline
type ProjectHandler struct {
	projectService  *service.ProjectService
	workflowService *service.WorkflowService
	auditService    *service.AuditService
	logger          *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(
	projectService *service.ProjectService,
	workflowService *service.WorkflowService,
	auditService *service.AuditService,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		workflowService: workflowService,
		auditService:    auditService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create project
// @Description Creates a new project in the NEW status at the scope of work stage.
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project data"
// @Success 201 {object} domain.ProjectDTO "Created project"
// @Failure 400 {object} domain.APIError "Invalid request body or unknown client"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create project", zap.Error(err))
		h.handleProjectError(w, err)
		return
	}

	w.Header().Set("Location", "/projects/"+project.ID.String())
	respondJSON(w, http.StatusCreated, project)
}

// Get godoc
// @Summary Get project
// @Description Returns a single project with its current status and workflow stage.
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError "Invalid project ID"
// @Failure 404 {object} domain.APIError "Project not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// List godoc
// @Summary List projects
// @Description Returns a paginated list of projects, optionally filtered by client and status.
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param clientId query string false "Filter by client ID"
// @Param status query string false "Filter by status" Enums(NEW, SOW_SUBMITTED, QUOTED, INVOICED, COMPLETED)
// @Param sortBy query string false "Sort field" Enums(name, status, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError "Invalid filter parameter"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var clientID *uuid.UUID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId: must be a valid UUID")
			return
		}
		clientID = &id
	}

	var status *domain.ProjectStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.ProjectStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &s
	}

	sort := repository.SortConfig{
		Field: r.URL.Query().Get("sortBy"),
		Order: repository.ParseSortOrder(r.URL.Query().Get("sortOrder")),
	}

	result, err := h.projectService.ListProjects(r.Context(), page, pageSize, clientID, status, sort)
	if err != nil {
		h.logger.Error("failed to list projects", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SubmitScopeOfWork godoc
// @Summary Submit scope of work
// @Description Submits a scope of work for a project. In a single transaction this versions the scope,
// @Description mirrors it into an unpriced draft work breakdown plan, and reserves a quotation number
// @Description for the provisional draft quotation.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.SubmitScopeOfWorkRequest true "Scope of work"
// @Success 201 {object} domain.SubmitScopeOfWorkResponse "Created scope, work breakdown and draft quotation"
// @Failure 400 {object} domain.APIError "Invalid project ID or request body"
// @Failure 404 {object} domain.APIError "Project not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/scope-of-work [post]
func (h *ProjectHandler) SubmitScopeOfWork(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req domain.SubmitScopeOfWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	response, err := h.workflowService.SubmitScopeOfWork(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to submit scope of work", zap.Error(err), zap.String("project_id", id.String()))
		h.handleProjectError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// GetScopeOfWork godoc
// @Summary Get latest scope of work
// @Description Returns the newest scope of work version for a project.
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ScopeOfWorkDTO
// @Failure 400 {object} domain.APIError "Invalid project ID"
// @Failure 404 {object} domain.APIError "No scope of work submitted yet"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/scope-of-work [get]
func (h *ProjectHandler) GetScopeOfWork(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	sow, err := h.projectService.GetLatestScopeOfWork(r.Context(), id)
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sow)
}

// ListWorkBreakdowns godoc
// @Summary List work breakdown plans
// @Description Returns all work breakdown plans for a project, newest first.
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} domain.WorkBreakdownDTO
// @Failure 400 {object} domain.APIError "Invalid project ID"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/wbp [get]
func (h *ProjectHandler) ListWorkBreakdowns(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	wbps, err := h.projectService.ListWorkBreakdowns(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list work breakdowns", zap.Error(err), zap.String("project_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list work breakdown plans")
		return
	}

	respondJSON(w, http.StatusOK, wbps)
}

// Timeline godoc
// @Summary Get project timeline
// @Description Returns the full milestone history of a project in chronological order.
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} domain.AuditEntryDTO
// @Failure 400 {object} domain.APIError "Invalid project ID"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id}/timeline [get]
func (h *ProjectHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	entries, err := h.auditService.ProjectTimeline(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load project timeline", zap.Error(err), zap.String("project_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to load project timeline")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *ProjectHandler) handleProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrClientNotFound):
		respondWithError(w, http.StatusBadRequest, "Client not found")
	case errors.Is(err, service.ErrScopeOfWorkNotFound):
		respondWithError(w, http.StatusNotFound, "No scope of work submitted for this project")
	case errors.Is(err, service.ErrNumberConflict):
		respondWithError(w, http.StatusConflict, "Document number already exists")
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
