package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// CompanyHandler handles tenant company and settings endpoints
type CompanyHandler struct {
	companyService *service.CompanyService
	logger         *zap.Logger
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// List godoc
// @Summary List companies
// @Description Returns all active companies. Super admin only.
// @Tags Companies
// @Produce json
// @Success 200 {array} domain.Company
// @Failure 403 {object} domain.APIError "Forbidden"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies [get]
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companyService.ListCompanies(r.Context())
	if err != nil {
		h.handleCompanyError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, companies)
}

// Get godoc
// @Summary Get company
// @Description Returns a single company. Callers may only read their own company.
// @Tags Companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} domain.Company
// @Failure 404 {object} domain.APIError "Company not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [get]
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := domain.CompanyID(chi.URLParam(r, "id"))

	company, err := h.companyService.GetCompany(r.Context(), id)
	if err != nil {
		h.handleCompanyError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, company)
}

// GetSettings godoc
// @Summary Get company settings
// @Description Returns the document defaults (prefixes, currency, payment terms) for the
// @Description caller's company.
// @Tags Settings
// @Produce json
// @Param companyId query string false "Company ID (super admins only)"
// @Success 200 {object} domain.CompanySettingsDTO
// @Failure 400 {object} domain.APIError "No company scope available"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings [get]
func (h *CompanyHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	companyID := auth.GetEffectiveCompanyFilter(r.Context())
	if companyID == nil {
		respondWithError(w, http.StatusBadRequest, "companyId query parameter is required")
		return
	}

	settings, err := h.companyService.GetSettings(r.Context(), *companyID)
	if err != nil {
		h.handleCompanyError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update company settings
// @Description Changes document defaults for the caller's company. Requires a finance role.
// @Description Sequence counters cannot be changed through the API.
// @Tags Settings
// @Accept json
// @Produce json
// @Param companyId query string false "Company ID (super admins only)"
// @Param request body domain.UpdateCompanySettingsRequest true "Settings changes"
// @Success 200 {object} domain.CompanySettingsDTO "Updated settings"
// @Failure 400 {object} domain.APIError "Invalid request body or no company scope"
// @Failure 403 {object} domain.APIError "Forbidden"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings [put]
func (h *CompanyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	companyID := auth.GetEffectiveCompanyFilter(r.Context())
	if companyID == nil {
		respondWithError(w, http.StatusBadRequest, "companyId query parameter is required")
		return
	}

	var req domain.UpdateCompanySettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.companyService.UpdateSettings(r.Context(), *companyID, &req)
	if err != nil {
		h.logger.Error("failed to update company settings", zap.Error(err), zap.String("company_id", string(*companyID)))
		h.handleCompanyError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (h *CompanyHandler) handleCompanyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		respondWithError(w, http.StatusNotFound, "Company not found")
	case errors.Is(err, service.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
