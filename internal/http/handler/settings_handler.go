package handler

import (
	"net/http"

	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// SettingsHandler exposes per-company numbering previews
type SettingsHandler struct {
	sequenceService *service.SequenceService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(sequenceService *service.SequenceService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		sequenceService: sequenceService,
		logger:          logger,
	}
}

// NextQuoteNumber godoc
// @Summary Preview next quotation number
// @Description Returns the next quotation number and label for the caller's company without
// @Description consuming the sequence. Super admins may select a company with the companyId
// @Description query parameter.
// @Tags Settings
// @Produce json
// @Param companyId query string false "Company ID (super admins only)"
// @Success 200 {object} domain.NextNumberResponse
// @Failure 400 {object} domain.APIError "No company scope available"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings/next-quote-number [get]
func (h *SettingsHandler) NextQuoteNumber(w http.ResponseWriter, r *http.Request) {
	companyID := auth.GetEffectiveCompanyFilter(r.Context())
	if companyID == nil {
		respondWithError(w, http.StatusBadRequest, "companyId query parameter is required")
		return
	}

	result, err := h.sequenceService.PeekQuoteNumber(r.Context(), *companyID)
	if err != nil {
		h.logger.Error("failed to preview next quote number", zap.Error(err), zap.String("company_id", string(*companyID)))
		respondWithError(w, http.StatusInternalServerError, "Failed to preview next quotation number")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// NextInvoiceNumber godoc
// @Summary Preview next invoice number
// @Description Returns the next invoice number and label for the caller's company without
// @Description consuming the sequence. Super admins may select a company with the companyId
// @Description query parameter.
// @Tags Settings
// @Produce json
// @Param companyId query string false "Company ID (super admins only)"
// @Success 200 {object} domain.NextNumberResponse
// @Failure 400 {object} domain.APIError "No company scope available"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings/next-invoice-number [get]
func (h *SettingsHandler) NextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	companyID := auth.GetEffectiveCompanyFilter(r.Context())
	if companyID == nil {
		respondWithError(w, http.StatusBadRequest, "companyId query parameter is required")
		return
	}

	result, err := h.sequenceService.PeekInvoiceNumber(r.Context(), *companyID)
	if err != nil {
		h.logger.Error("failed to preview next invoice number", zap.Error(err), zap.String("company_id", string(*companyID)))
		respondWithError(w, http.StatusInternalServerError, "Failed to preview next invoice number")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
