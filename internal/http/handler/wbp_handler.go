package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/service"
	"go.uber.org/zap"
)

// WBPHandler handles work breakdown plan endpoints
type WBPHandler struct {
	workflowService *service.WorkflowService
	logger          *zap.Logger
}

// NewWBPHandler creates a new WBPHandler
func NewWBPHandler(workflowService *service.WorkflowService, logger *zap.Logger) *WBPHandler {
	return &WBPHandler{
		workflowService: workflowService,
		logger:          logger,
	}
}

// SaveDraft godoc
// @Summary Save work breakdown draft
// @Description Replaces the items and notes of a draft work breakdown plan. Saving is idempotent
// @Description and triggers no lifecycle transitions. Refused once the plan has been approved.
// @Tags WorkBreakdowns
// @Accept json
// @Produce json
// @Param id path string true "Work breakdown plan ID"
// @Param request body domain.SaveWBPDraftRequest true "Draft items and notes"
// @Success 200 {object} domain.WorkBreakdownDTO "Updated work breakdown plan"
// @Failure 400 {object} domain.APIError "Invalid ID, request body, or plan no longer a draft"
// @Failure 404 {object} domain.APIError "Work breakdown plan not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /wbp/{id}/draft [put]
func (h *WBPHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work breakdown plan ID")
		return
	}

	var req domain.SaveWBPDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	wbp, err := h.workflowService.SaveWBPDraft(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to save work breakdown draft", zap.Error(err), zap.String("wbp_id", id.String()))
		h.handleWBPError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, wbp)
}

// GenerateQuotation godoc
// @Summary Generate quotation from work breakdown
// @Description Prices the reserved draft quotation from the work breakdown plan's items, approves the
// @Description plan and moves the project to the QUOTED status. The quotation keeps the number reserved
// @Description at scope submission unless a manual label is supplied.
// @Tags WorkBreakdowns
// @Accept json
// @Produce json
// @Param id path string true "Work breakdown plan ID"
// @Param request body domain.GenerateQuotationRequest true "Generation options"
// @Success 200 {object} domain.InvoiceDTO "Generated quotation"
// @Failure 400 {object} domain.APIError "Invalid ID, request body, or plan not in draft"
// @Failure 404 {object} domain.APIError "Work breakdown plan or reserved quotation not found"
// @Failure 409 {object} domain.APIError "Quotation number already in use"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /wbp/{id}/quotation [post]
func (h *WBPHandler) GenerateQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work breakdown plan ID")
		return
	}

	var req domain.GenerateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body is allowed
		req = domain.GenerateQuotationRequest{}
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.workflowService.GenerateQuotationFromWBP(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to generate quotation", zap.Error(err), zap.String("wbp_id", id.String()))
		h.handleWBPError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// SuggestPrices godoc
// @Summary Suggest unit prices from pricing history
// @Description Fills unpriced lines of a draft work breakdown plan with average unit prices from the
// @Description pricing warehouse. Lines that already carry a price are left untouched.
// @Tags WorkBreakdowns
// @Produce json
// @Param id path string true "Work breakdown plan ID"
// @Success 200 {object} domain.SuggestPricesResponse "Plan with suggested prices"
// @Failure 400 {object} domain.APIError "Invalid ID or plan not in draft"
// @Failure 404 {object} domain.APIError "Work breakdown plan not found"
// @Failure 503 {object} domain.APIError "Pricing warehouse not available"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /wbp/{id}/suggest-prices [post]
func (h *WBPHandler) SuggestPrices(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work breakdown plan ID")
		return
	}

	response, err := h.workflowService.SuggestUnitPrices(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to suggest unit prices", zap.Error(err), zap.String("wbp_id", id.String()))
		h.handleWBPError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *WBPHandler) handleWBPError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWorkBreakdownNotFound):
		respondWithError(w, http.StatusNotFound, "Work breakdown plan not found")
	case errors.Is(err, service.ErrInvoiceNotFound):
		respondWithError(w, http.StatusNotFound, "Reserved quotation not found for this work breakdown plan")
	case errors.Is(err, service.ErrWBPNotDraft):
		respondWithError(w, http.StatusBadRequest, "Work breakdown plan is no longer a draft")
	case errors.Is(err, service.ErrNumberConflict):
		respondWithError(w, http.StatusConflict, "Quotation number already exists")
	case errors.Is(err, service.ErrPricingUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "Pricing history is not available")
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
