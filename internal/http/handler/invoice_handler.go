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

// InvoiceHandler handles quotation and invoice endpoints, including the
// quote decision transitions and payment recording
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	workflowService *service.WorkflowService
	paymentService  *service.PaymentService
	logger          *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	invoiceService *service.InvoiceService,
	workflowService *service.WorkflowService,
	paymentService *service.PaymentService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		workflowService: workflowService,
		paymentService:  paymentService,
		logger:          logger,
	}
}

// Get godoc
// @Summary Get invoice or quotation
// @Description Returns a single document with its items and payments.
// @Tags Invoices
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError "Invalid document ID"
// @Failure 404 {object} domain.APIError "Document not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(r.Context(), id)
	if err != nil {
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// List godoc
// @Summary List invoices and quotations
// @Description Returns a paginated list of documents, optionally filtered by project, type and status.
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param projectId query string false "Filter by project ID"
// @Param type query string false "Filter by document type" Enums(QUOTE, INVOICE)
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, ACCEPTED, REJECTED, CANCELLED, OVERDUE, PARTIAL, PAID)
// @Param sortBy query string false "Sort field" Enums(number, status, total, createdAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError "Invalid filter parameter"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var projectID *uuid.UUID
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid projectId: must be a valid UUID")
			return
		}
		projectID = &id
	}

	var docType *domain.InvoiceType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := domain.InvoiceType(raw)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid type filter: must be QUOTE or INVOICE")
			return
		}
		docType = &t
	}

	var status *domain.InvoiceStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.InvoiceStatus(raw)
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

	result, err := h.invoiceService.ListInvoices(r.Context(), page, pageSize, projectID, docType, status, sort)
	if err != nil {
		h.logger.Error("failed to list invoices", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UpdateItems godoc
// @Summary Update document line items
// @Description Replaces the line items of an editable document. Totals are recomputed server-side.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body domain.UpdateInvoiceItemsRequest true "Replacement items"
// @Success 200 {object} domain.InvoiceDTO "Updated document"
// @Failure 400 {object} domain.APIError "Invalid ID, request body, or document no longer editable"
// @Failure 404 {object} domain.APIError "Document not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/items [put]
func (h *InvoiceHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	var req domain.UpdateInvoiceItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceItems(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update invoice items", zap.Error(err), zap.String("invoice_id", id.String()))
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Approve godoc
// @Summary Approve quotation
// @Description Marks a quotation as accepted and creates the final invoice from it with a freshly
// @Description allocated invoice number. The project moves to the INVOICED status.
// @Tags Invoices
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.ConvertQuoteResponse "Accepted quote and created invoice"
// @Failure 400 {object} domain.APIError "Invalid ID, document not a quotation, or already decided"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	response, err := h.workflowService.ApproveQuote(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to approve quote", zap.Error(err), zap.String("quote_id", id.String()))
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Reject godoc
// @Summary Reject quotation
// @Description Marks a quotation as rejected. The project keeps its current stage so a new work
// @Description breakdown plan can be priced.
// @Tags Invoices
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.InvoiceDTO "Rejected quotation"
// @Failure 400 {object} domain.APIError "Invalid ID, document not a quotation, or already decided"
// @Failure 404 {object} domain.APIError "Quotation not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/reject [post]
func (h *InvoiceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	quote, err := h.workflowService.RejectQuote(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reject quote", zap.Error(err), zap.String("quote_id", id.String()))
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Send godoc
// @Summary Send invoice
// @Description Transitions a draft invoice to the SENT status and stamps its issue and due dates.
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.InvoiceDTO "Sent invoice"
// @Failure 400 {object} domain.APIError "Invalid ID or invoice not in draft"
// @Failure 404 {object} domain.APIError "Invoice not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.workflowService.SendInvoice(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to send invoice", zap.Error(err), zap.String("invoice_id", id.String()))
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// RecordPayment godoc
// @Summary Record payment
// @Description Records a payment against an invoice and reconciles its status. Settlement within
// @Description tolerance marks the invoice PAID, settles the originating quotation and completes
// @Description the project.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body domain.RecordPaymentRequest true "Payment data"
// @Success 201 {object} domain.RecordPaymentResponse "Recorded payment and reconciled invoice"
// @Failure 400 {object} domain.APIError "Invalid ID, request body, or document not an invoice"
// @Failure 404 {object} domain.APIError "Invoice not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	response, err := h.paymentService.RecordPayment(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to record payment", zap.Error(err), zap.String("invoice_id", id.String()))
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// ListPayments godoc
// @Summary List payments
// @Description Returns the payments recorded against an invoice, oldest first.
// @Tags Payments
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} domain.PaymentDTO
// @Failure 400 {object} domain.APIError "Invalid invoice ID"
// @Failure 404 {object} domain.APIError "Invoice not found"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListPayments(r.Context(), id)
	if err != nil {
		h.handleInvoiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

func (h *InvoiceHandler) handleInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		respondWithError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrQuoteAlreadyAccepted):
		respondWithError(w, http.StatusBadRequest, "Quotation has already been accepted")
	case errors.Is(err, service.ErrInvoiceNotEditable):
		respondWithError(w, http.StatusBadRequest, "Document can no longer be edited")
	case errors.Is(err, service.ErrInvalidState):
		respondWithError(w, http.StatusBadRequest, err.Error())
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
