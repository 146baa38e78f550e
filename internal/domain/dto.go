package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps list results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalItems int64       `json:"totalItems"`
	TotalPages int         `json:"totalPages"`
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

// ClientDTO is the API representation of a client
type ClientDTO struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     CompanyID `json:"companyId"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	VATNumber     string    `json:"vatNumber,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	SiteAreas     []string  `json:"siteAreas,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateClientRequest is the payload for creating a client
type CreateClientRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone" validate:"omitempty,max=50"`
	Address       string   `json:"address" validate:"omitempty,max=500"`
	City          string   `json:"city" validate:"omitempty,max=100"`
	PostalCode    string   `json:"postalCode" validate:"omitempty,max=20"`
	VATNumber     string   `json:"vatNumber" validate:"omitempty,max=20"`
	ContactPerson string   `json:"contactPerson" validate:"omitempty,max=200"`
	SiteAreas     []string `json:"siteAreas" validate:"omitempty,dive,max=200"`
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

// ProjectDTO is the API representation of a project
type ProjectDTO struct {
	ID            uuid.UUID     `json:"id"`
	CompanyID     CompanyID     `json:"companyId"`
	ClientID      uuid.UUID     `json:"clientId"`
	ClientName    string        `json:"clientName,omitempty"`
	Name          string        `json:"name"`
	SiteAddress   string        `json:"siteAddress,omitempty"`
	Description   string        `json:"description,omitempty"`
	Status        ProjectStatus `json:"status"`
	WorkflowStage WorkflowStage `json:"workflowStage"`
	StartDate     *time.Time    `json:"startDate,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	ClientID    uuid.UUID  `json:"clientId" validate:"required"`
	Name        string     `json:"name" validate:"required,max=200"`
	SiteAddress string     `json:"siteAddress" validate:"omitempty,max=500"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	StartDate   *time.Time `json:"startDate"`
}

// ---------------------------------------------------------------------------
// Scope of work
// ---------------------------------------------------------------------------

// SOWItemDTO is the API representation of a scope of work line
type SOWItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	Area        string    `json:"area,omitempty"`
	Position    int       `json:"position"`
}

// ScopeOfWorkDTO is the API representation of a scope of work
type ScopeOfWorkDTO struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"projectId"`
	Version   int          `json:"version"`
	Status    SOWStatus    `json:"status"`
	Title     string       `json:"title"`
	Notes     string       `json:"notes,omitempty"`
	Items     []SOWItemDTO `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
}

// SOWItemRequest is a scope of work line in a submission payload
type SOWItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	Unit        string  `json:"unit" validate:"omitempty,max=50"`
	Area        string  `json:"area" validate:"omitempty,max=200"`
}

// SubmitScopeOfWorkRequest is the payload for submitting a scope of work
type SubmitScopeOfWorkRequest struct {
	Title string           `json:"title" validate:"required,max=200"`
	Notes string           `json:"notes" validate:"omitempty,max=5000"`
	Items []SOWItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SubmitScopeOfWorkResponse reports the artifacts created by a submission
type SubmitScopeOfWorkResponse struct {
	ScopeOfWork *ScopeOfWorkDTO   `json:"scopeOfWork"`
	WBP         *WorkBreakdownDTO `json:"wbp"`
	Quote       *InvoiceDTO       `json:"quote"`
	Project     *ProjectDTO       `json:"project"`
}

// ---------------------------------------------------------------------------
// Work breakdown
// ---------------------------------------------------------------------------

// WBPItemDTO is the API representation of a work breakdown line
type WBPItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	UnitPrice   float64   `json:"unitPrice"`
	Position    int       `json:"position"`
}

// WorkBreakdownDTO is the API representation of a work breakdown plan
type WorkBreakdownDTO struct {
	ID            uuid.UUID    `json:"id"`
	ProjectID     uuid.UUID    `json:"projectId"`
	ScopeOfWorkID uuid.UUID    `json:"scopeOfWorkId"`
	Status        WBPStatus    `json:"status"`
	Notes         string       `json:"notes,omitempty"`
	Items         []WBPItemDTO `json:"items"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// WBPItemRequest is a work breakdown line in a draft payload
type WBPItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	Unit        string  `json:"unit" validate:"omitempty,max=50"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// SaveWBPDraftRequest replaces the draft items and notes of a work
// breakdown plan. Saving a draft is idempotent and triggers no transitions.
type SaveWBPDraftRequest struct {
	Notes string           `json:"notes" validate:"omitempty,max=5000"`
	Items []WBPItemRequest `json:"items" validate:"required,dive"`
}

// GenerateQuotationRequest turns a draft work breakdown into a quotation.
// ManualLabel optionally overrides the reserved quotation label.
type GenerateQuotationRequest struct {
	ManualLabel string `json:"manualLabel" validate:"omitempty,max=100"`
}

// SuggestPricesResponse reports unit prices filled from pricing history
type SuggestPricesResponse struct {
	WBP       *WorkBreakdownDTO `json:"wbp"`
	Suggested int               `json:"suggested"`
}

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

// InvoiceItemDTO is the API representation of an invoice line
type InvoiceItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	LineTotal   float64   `json:"lineTotal"`
	Position    int       `json:"position"`
}

// InvoiceDTO is the API representation of a quotation or invoice
type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	CompanyID     CompanyID        `json:"companyId"`
	ProjectID     uuid.UUID        `json:"projectId"`
	WBPID         *uuid.UUID       `json:"wbpId,omitempty"`
	Type          InvoiceType      `json:"type"`
	Number        int              `json:"number"`
	Label         string           `json:"label"`
	Status        InvoiceStatus    `json:"status"`
	Currency      string           `json:"currency"`
	Subtotal      float64          `json:"subtotal"`
	TaxAmount     float64          `json:"taxAmount"`
	Total         float64          `json:"total"`
	PaidToDate    float64          `json:"paidToDate"`
	IssueDate     *time.Time       `json:"issueDate,omitempty"`
	DueDate       *time.Time       `json:"dueDate,omitempty"`
	SourceQuoteID *uuid.UUID       `json:"sourceQuoteId,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Items         []InvoiceItemDTO `json:"items"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// InvoiceItemRequest is an invoice line in an update payload
type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

// UpdateInvoiceItemsRequest replaces the line items of an editable invoice.
// Totals are recomputed server-side; client totals are never trusted.
type UpdateInvoiceItemsRequest struct {
	Items []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ConvertQuoteResponse reports the invoice created from an accepted quote
type ConvertQuoteResponse struct {
	Quote   *InvoiceDTO `json:"quote"`
	Invoice *InvoiceDTO `json:"invoice"`
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// PaymentDTO is the API representation of a payment
type PaymentDTO struct {
	ID        uuid.UUID     `json:"id"`
	InvoiceID uuid.UUID     `json:"invoiceId"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	PaidAt    time.Time     `json:"paidAt"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// RecordPaymentRequest is the payload for recording a payment
type RecordPaymentRequest struct {
	Amount float64       `json:"amount" validate:"gt=0"`
	Method PaymentMethod `json:"method" validate:"required,oneof=EFT CASH CARD CHEQUE OTHER"`
	PaidAt *time.Time    `json:"paidAt"`
	Notes  string        `json:"notes" validate:"omitempty,max=2000"`
}

// RecordPaymentResponse reports the invoice state after reconciliation
type RecordPaymentResponse struct {
	Payment *PaymentDTO `json:"payment"`
	Invoice *InvoiceDTO `json:"invoice"`
}

// ---------------------------------------------------------------------------
// Numbering and settings
// ---------------------------------------------------------------------------

// CompanySettingsDTO is the API representation of per-company document
// defaults. The sequence counters themselves are not exposed; use the
// next-number preview endpoints instead.
type CompanySettingsDTO struct {
	CompanyID        CompanyID `json:"companyId"`
	QuotePrefix      string    `json:"quotePrefix"`
	InvoicePrefix    string    `json:"invoicePrefix"`
	Currency         string    `json:"currency"`
	PaymentTermsDays int       `json:"paymentTermsDays"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UpdateCompanySettingsRequest changes document defaults for a company.
// Counters cannot be set through the API.
type UpdateCompanySettingsRequest struct {
	QuotePrefix      *string `json:"quotePrefix" validate:"omitempty,min=1,max=50"`
	InvoicePrefix    *string `json:"invoicePrefix" validate:"omitempty,min=1,max=50"`
	PaymentTermsDays *int    `json:"paymentTermsDays" validate:"omitempty,gte=0,lte=365"`
}

// NextNumberResponse previews the next document number without reserving it
type NextNumberResponse struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

// AuditEntryDTO is the API representation of an audit milestone
type AuditEntryDTO struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  CompanyID  `json:"companyId"`
	ProjectID  *uuid.UUID `json:"projectId,omitempty"`
	EntityType string     `json:"entityType"`
	EntityID   uuid.UUID  `json:"entityId"`
	Milestone  Milestone  `json:"milestone"`
	Detail     string     `json:"detail,omitempty"`
	ActorName  string     `json:"actorName,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// FileDTO is the API representation of an uploaded file
type FileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Size        int64      `json:"size"`
	InvoiceID   *uuid.UUID `json:"invoiceId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
