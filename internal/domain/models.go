package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Money amounts are stored as decimal(15,2) and rounded half-up to cents.
const (
	// TaxRate is the flat VAT rate applied to all commercial documents.
	TaxRate = 0.15

	// SettlementTolerance is the maximum shortfall (in currency units) at
	// which an invoice is still considered settled in full.
	SettlementTolerance = 0.01

	// DefaultCurrency is the ISO 4217 code used for all documents.
	DefaultCurrency = "ZAR"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID so models work on every supported dialect.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CompanyID is the opaque tenant identifier carried on every row
type CompanyID string

// Company represents a tenant company (stored in database)
type Company struct {
	ID        CompanyID `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	VATNumber string    `gorm:"type:varchar(20);column:vat_number" json:"vatNumber,omitempty"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address   string    `gorm:"type:varchar(500)" json:"address,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// CompanySettings holds per-company numbering counters and document defaults.
// Exactly one row per company; it is the single authoritative source for the
// next quotation and invoice numbers and is write-serialized with a row lock.
type CompanySettings struct {
	BaseModel
	CompanyID         CompanyID `gorm:"type:varchar(50);not null;uniqueIndex;column:company_id"`
	LastQuoteNumber   int       `gorm:"not null;default:0;column:last_quote_number"`
	LastInvoiceNumber int       `gorm:"not null;default:0;column:last_invoice_number"`
	QuotePrefix       string    `gorm:"type:varchar(50);not null;default:'Quotation';column:quote_prefix"`
	InvoicePrefix     string    `gorm:"type:varchar(50);not null;default:'INV';column:invoice_prefix"`
	Currency          string    `gorm:"type:varchar(3);not null;default:'ZAR'"`
	PaymentTermsDays  int       `gorm:"not null;default:30;column:payment_terms_days"`
}

// Client represents a customer the company performs work for
type Client struct {
	BaseModel
	CompanyID     CompanyID      `gorm:"type:varchar(50);not null;index;column:company_id"`
	Name          string         `gorm:"type:varchar(200);not null;index"`
	Email         string         `gorm:"type:varchar(255)"`
	Phone         string         `gorm:"type:varchar(50)"`
	Address       string         `gorm:"type:varchar(500)"`
	City          string         `gorm:"type:varchar(100)"`
	PostalCode    string         `gorm:"type:varchar(20)"`
	VATNumber     string         `gorm:"type:varchar(20);column:vat_number"`
	ContactPerson string         `gorm:"type:varchar(200);column:contact_person"`
	SiteAreas     pq.StringArray `gorm:"type:text[];column:site_areas"`
	Projects      []Project      `gorm:"foreignKey:ClientID"`
}

// ProjectStatus represents the commercial status of a project
type ProjectStatus string

const (
	ProjectStatusNew          ProjectStatus = "NEW"
	ProjectStatusSOWSubmitted ProjectStatus = "SOW_SUBMITTED"
	ProjectStatusQuoted       ProjectStatus = "QUOTED"
	ProjectStatusInvoiced     ProjectStatus = "INVOICED"
	ProjectStatusCompleted    ProjectStatus = "COMPLETED"
)

// IsValid checks if the ProjectStatus is a valid enum value
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusNew, ProjectStatusSOWSubmitted, ProjectStatusQuoted, ProjectStatusInvoiced, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a job site engagement moving through the
// SOW -> quotation -> invoice -> payment pipeline
type Project struct {
	BaseModel
	CompanyID     CompanyID      `gorm:"type:varchar(50);not null;index;column:company_id"`
	ClientID      uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id"`
	Client        *Client        `gorm:"foreignKey:ClientID"`
	ClientName    string         `gorm:"type:varchar(200);column:client_name"`
	Name          string         `gorm:"type:varchar(200);not null;index"`
	SiteAddress   string         `gorm:"type:varchar(500);column:site_address"`
	Description   string         `gorm:"type:text"`
	Status        ProjectStatus  `gorm:"type:varchar(50);not null;default:'NEW';index"`
	WorkflowStage WorkflowStage  `gorm:"type:varchar(50);not null;default:'SOW';column:workflow_stage"`
	StartDate     *time.Time     `gorm:"type:date;column:start_date"`
	ScopesOfWork  []ScopeOfWork  `gorm:"foreignKey:ProjectID"`
	WorkBreakdown []WorkBreakdown `gorm:"foreignKey:ProjectID"`
	Invoices      []Invoice      `gorm:"foreignKey:ProjectID"`
}

// SOWStatus represents the status of a scope of work
type SOWStatus string

const (
	SOWStatusDraft     SOWStatus = "DRAFT"
	SOWStatusSubmitted SOWStatus = "SUBMITTED"
)

// ScopeOfWork is a versioned, client-facing description of requested work.
// Versions are append-only per project; submission never overwrites.
type ScopeOfWork struct {
	BaseModel
	CompanyID CompanyID `gorm:"type:varchar(50);not null;index;column:company_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;column:project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID"`
	Version   int       `gorm:"not null;default:1"`
	Status    SOWStatus `gorm:"type:varchar(50);not null;default:'DRAFT'"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Notes     string    `gorm:"type:text"`
	Items     []SOWItem `gorm:"foreignKey:ScopeOfWorkID;constraint:OnDelete:CASCADE"`
}

// SOWItem is an unpriced work line captured from the client
type SOWItem struct {
	BaseModel
	ScopeOfWorkID uuid.UUID `gorm:"type:uuid;not null;index;column:scope_of_work_id"`
	Description   string    `gorm:"type:varchar(500);not null"`
	Quantity      float64   `gorm:"type:decimal(10,2);not null;default:1"`
	Unit          string    `gorm:"type:varchar(50)"`
	Area          string    `gorm:"type:varchar(200)"`
	Position      int       `gorm:"not null;default:0"`
}

// WBPStatus represents the status of a work breakdown plan
type WBPStatus string

const (
	WBPStatusDraft    WBPStatus = "DRAFT"
	WBPStatusApproved WBPStatus = "APPROVED"
)

// WorkBreakdown is the internal pricing worksheet mirrored from a submitted
// scope of work. It stays editable until a quotation is generated from it.
type WorkBreakdown struct {
	BaseModel
	CompanyID     CompanyID    `gorm:"type:varchar(50);not null;index;column:company_id"`
	ProjectID     uuid.UUID    `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project     `gorm:"foreignKey:ProjectID"`
	ScopeOfWorkID uuid.UUID    `gorm:"type:uuid;not null;index;column:scope_of_work_id"`
	ScopeOfWork   *ScopeOfWork `gorm:"foreignKey:ScopeOfWorkID"`
	Status        WBPStatus    `gorm:"type:varchar(50);not null;default:'DRAFT'"`
	Notes         string       `gorm:"type:text"`
	Items         []WBPItem    `gorm:"foreignKey:WorkBreakdownID;constraint:OnDelete:CASCADE"`
}

// WBPItem is a priced work line on a work breakdown plan
type WBPItem struct {
	BaseModel
	WorkBreakdownID uuid.UUID `gorm:"type:uuid;not null;index;column:work_breakdown_id"`
	Description     string    `gorm:"type:varchar(500);not null"`
	Quantity        float64   `gorm:"type:decimal(10,2);not null;default:1"`
	Unit            string    `gorm:"type:varchar(50)"`
	UnitPrice       float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	Position        int       `gorm:"not null;default:0"`
}

// InvoiceType distinguishes quotations from final invoices.
// Each type draws numbers from its own independent per-company sequence.
type InvoiceType string

const (
	InvoiceTypeQuote   InvoiceType = "QUOTE"
	InvoiceTypeInvoice InvoiceType = "INVOICE"
)

// InvoiceStatus represents the status of a commercial document
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusAccepted  InvoiceStatus = "ACCEPTED"
	InvoiceStatusRejected  InvoiceStatus = "REJECTED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
)

// IsValid checks if the InvoiceType is a valid enum value
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeQuote || t == InvoiceTypeInvoice
}

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusAccepted, InvoiceStatusRejected,
		InvoiceStatusCancelled, InvoiceStatusOverdue, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsEditable reports whether line items may still be changed
func (s InvoiceStatus) IsEditable() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusSent
}

// Invoice represents a quotation or invoice document.
// (company_id, type, number) is unique; the label is the printable form.
type Invoice struct {
	BaseModel
	CompanyID     CompanyID     `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_type_number;column:company_id"`
	ProjectID     uuid.UUID     `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project      `gorm:"foreignKey:ProjectID"`
	WBPID         *uuid.UUID    `gorm:"type:uuid;index;column:wbp_id"`
	WorkBreakdown *WorkBreakdown `gorm:"foreignKey:WBPID"`
	Type          InvoiceType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_invoices_company_type_number"`
	Number        int           `gorm:"not null;uniqueIndex:idx_invoices_company_type_number"`
	Label         string        `gorm:"type:varchar(100);not null"`
	Status        InvoiceStatus `gorm:"type:varchar(50);not null;default:'DRAFT';index"`
	Currency      string        `gorm:"type:varchar(3);not null;default:'ZAR'"`
	Subtotal      float64       `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount     float64       `gorm:"type:decimal(15,2);not null;default:0;column:tax_amount"`
	Total         float64       `gorm:"type:decimal(15,2);not null;default:0"`
	PaidToDate    float64       `gorm:"type:decimal(15,2);not null;default:0;column:paid_to_date"`
	IssueDate     *time.Time    `gorm:"type:date;column:issue_date"`
	DueDate       *time.Time    `gorm:"type:date;column:due_date"`
	SourceQuoteID *uuid.UUID    `gorm:"type:uuid;index;column:source_quote_id"`
	Notes         string        `gorm:"type:text"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments      []Payment     `gorm:"foreignKey:InvoiceID"`
	Files         []File        `gorm:"foreignKey:InvoiceID"`
}

// InvoiceItem is a priced line on an invoice or quotation
type InvoiceItem struct {
	BaseModel
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index;column:invoice_id"`
	Description string    `gorm:"type:varchar(500);not null"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null;default:1"`
	UnitPrice   float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	LineTotal   float64   `gorm:"type:decimal(15,2);not null;default:0;column:line_total"`
	Position    int       `gorm:"not null;default:0"`
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodEFT    PaymentMethod = "EFT"
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
	PaymentMethodOther  PaymentMethod = "OTHER"
)

// IsValid checks if the PaymentMethod is a valid enum value
func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodEFT, PaymentMethodCash, PaymentMethodCard, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an append-only record of money received against an invoice.
// Payments are never updated or deleted; corrections are new entries.
type Payment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key"`
	CompanyID CompanyID     `gorm:"type:varchar(50);not null;index;column:company_id"`
	InvoiceID uuid.UUID     `gorm:"type:uuid;not null;index;column:invoice_id"`
	Amount    float64       `gorm:"type:decimal(15,2);not null"`
	Method    PaymentMethod `gorm:"type:varchar(20);not null;default:'EFT'"`
	PaidAt    time.Time     `gorm:"not null;column:paid_at"`
	Notes     string        `gorm:"type:text"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID for dialects without a UUID default.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Milestone identifies a workflow event recorded on the audit trail
type Milestone string

const (
	MilestoneSOWSubmitted     Milestone = "SOW_SUBMITTED"
	MilestoneWBPDraftSaved    Milestone = "WBP_DRAFT_SAVED"
	MilestoneQuoteGenerated   Milestone = "QUOTE_GENERATED"
	MilestoneQuoteAccepted    Milestone = "QUOTE_ACCEPTED"
	MilestoneQuoteRejected    Milestone = "QUOTE_REJECTED"
	MilestoneInvoiceCreated   Milestone = "INVOICE_CREATED"
	MilestoneInvoiceSent      Milestone = "INVOICE_SENT"
	MilestoneInvoiceOverdue   Milestone = "INVOICE_OVERDUE"
	MilestonePaymentRecorded  Milestone = "PAYMENT_RECORDED"
	MilestoneInvoicePaid      Milestone = "INVOICE_PAID"
	MilestoneProjectCompleted Milestone = "PROJECT_COMPLETED"
)

// AuditEntry records a workflow milestone for reporting. Entries are
// appended best effort after the state change commits; a lost entry never
// rolls back the transition it describes.
type AuditEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CompanyID  CompanyID  `gorm:"type:varchar(50);not null;index;column:company_id"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index;column:project_id"`
	EntityType string     `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;column:entity_id"`
	Milestone  Milestone  `gorm:"type:varchar(100);not null"`
	Detail     string     `gorm:"type:text"`
	ActorID    string     `gorm:"type:varchar(100);column:actor_id"`
	ActorName  string     `gorm:"type:varchar(200);column:actor_name"`
	OccurredAt time.Time  `gorm:"not null;column:occurred_at;index"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID for dialects without a UUID default.
func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	return nil
}

// File represents an uploaded document (client PO, proof of payment)
type File struct {
	BaseModel
	CompanyID   CompanyID  `gorm:"type:varchar(50);not null;index;column:company_id"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique"`
	InvoiceID   *uuid.UUID `gorm:"type:uuid;index;column:invoice_id"`
	Invoice     *Invoice   `gorm:"foreignKey:InvoiceID"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleSuperAdmin UserRoleType = "super_admin"
	RoleAdmin      UserRoleType = "admin"
	RoleFinance    UserRoleType = "finance"
	RoleOperations UserRoleType = "operations"
	RoleViewer     UserRoleType = "viewer"
	RoleAPIService UserRoleType = "api_service"
)
