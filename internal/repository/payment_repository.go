package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

// PaymentRepository handles database operations for payments. Payments are
// append-only: there is no update or delete, corrections are recorded as
// additional entries.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateTx appends a payment inside the caller's transaction.
func (r *PaymentRepository) CreateTx(tx *gorm.DB, payment *domain.Payment) error {
	return tx.Create(payment).Error
}

// SumByInvoiceTx recomputes the paid-to-date total from all payment rows of
// an invoice inside the caller's transaction. The running total on the
// invoice is always derived from this, never incremented in place.
func (r *PaymentRepository) SumByInvoiceTx(tx *gorm.DB, invoiceID uuid.UUID) (float64, error) {
	var sum float64
	err := tx.Model(&domain.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// ListByInvoice returns all payments for an invoice in chronological order.
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	query := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC")
	query = ApplyCompanyFilter(ctx, query)
	err := query.Find(&payments).Error
	return payments, err
}
