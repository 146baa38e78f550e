package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler exposes the milestone trail for reporting
type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit entries
// @Description Returns a filtered, paginated list of audit milestones, newest first.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param projectId query string false "Filter by project ID"
// @Param entityType query string false "Filter by entity type" Enums(project, scope_of_work, wbp, invoice, payment)
// @Param entityId query string false "Filter by entity ID"
// @Param milestone query string false "Filter by milestone"
// @Param actorId query string false "Filter by actor ID"
// @Param startTime query string false "Filter entries at or after this time (RFC3339)"
// @Param endTime query string false "Filter entries before this time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError "Invalid filter parameter"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := &repository.AuditFilter{
		EntityType: r.URL.Query().Get("entityType"),
		Milestone:  domain.Milestone(r.URL.Query().Get("milestone")),
		ActorID:    r.URL.Query().Get("actorId"),
	}

	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid projectId: must be a valid UUID")
			return
		}
		filter.ProjectID = &id
	}

	if raw := r.URL.Query().Get("entityId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid entityId: must be a valid UUID")
			return
		}
		filter.EntityID = &id
	}

	if raw := r.URL.Query().Get("startTime"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid startTime: must be RFC3339")
			return
		}
		filter.StartTime = &t
	}

	if raw := r.URL.Query().Get("endTime"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid endTime: must be RFC3339")
			return
		}
		filter.EndTime = &t
	}

	result, err := h.auditService.ListEntries(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list audit entries", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list audit entries")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
