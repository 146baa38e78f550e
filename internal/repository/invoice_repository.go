package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		}).
		Where("id = ?", id)
	query = ApplyCompanyFilter(ctx, query)
	err := query.First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByIDTx fetches an invoice with a row lock inside the caller's
// transaction. Items and payments are loaded after the lock is taken.
func (r *InvoiceRepository) GetByIDTx(tx *gorm.DB, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := LockForUpdate(tx).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", id).Order("position ASC").Find(&invoice.Items).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", id).Order("paid_at ASC").Find(&invoice.Payments).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetQuoteByWBPTx returns the quotation document linked to a work breakdown
// inside the caller's transaction. Every work breakdown carries exactly one
// quotation from the moment the scope of work is submitted.
func (r *InvoiceRepository) GetQuoteByWBPTx(tx *gorm.DB, wbpID uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := LockForUpdate(tx).
		Where("wbp_id = ? AND type = ?", wbpID, domain.InvoiceTypeQuote).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", invoice.ID).Order("position ASC").Find(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, projectID *uuid.UUID, docType *domain.InvoiceType, status *domain.InvoiceStatus, sort SortConfig) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Preload("Items", orderByPosition)
	query = ApplyCompanyFilter(ctx, query)

	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if docType != nil {
		query = query.Where("type = ?", *docType)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, map[string]string{
		"number":    "number",
		"label":     "label",
		"status":    "status",
		"total":     "total",
		"dueDate":   "due_date",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}, "created_at")

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order(orderClause).Find(&invoices).Error

	return invoices, total, err
}

// ReplaceItemsTx deletes and recreates the line items of an invoice inside
// the caller's transaction.
func (r *InvoiceRepository) ReplaceItemsTx(tx *gorm.DB, invoiceID uuid.UUID, items []domain.InvoiceItem) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&domain.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
		items[i].Position = i
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// ListOverdueCandidates returns sent invoices whose due date has passed.
// Used by the overdue sweep job; not tenant filtered because the sweep
// runs for all companies.
func (r *InvoiceRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?",
			domain.InvoiceTypeInvoice, domain.InvoiceStatusSent, asOf).
		Find(&invoices).Error
	return invoices, err
}
