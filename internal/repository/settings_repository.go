package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/highveld-fm/commercial-api/internal/domain"
	"gorm.io/gorm"
)

// SettingsRepository handles database operations for per-company settings,
// including the quotation and invoice counters. The counters are the single
// source of numbering truth for a company: every allocation goes through a
// SELECT FOR UPDATE on the settings row so concurrent allocations serialize.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByCompany retrieves the settings row for a company without locking.
// Returns gorm.ErrRecordNotFound if the company has no settings yet.
func (r *SettingsRepository) GetByCompany(ctx context.Context, companyID domain.CompanyID) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetByCompanyTx retrieves the settings row inside the caller's
// transaction so the read shares the transaction's consistency boundary.
// A company with no row yet gets the defaults without creating one.
func (r *SettingsRepository) GetByCompanyTx(tx *gorm.DB, companyID domain.CompanyID) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := tx.Where("company_id = ?", companyID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return &domain.CompanySettings{
			CompanyID:        companyID,
			QuotePrefix:      "Quotation",
			InvoicePrefix:    "INV",
			Currency:         domain.DefaultCurrency,
			PaymentTermsDays: 30,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company settings: %w", err)
	}
	return &settings, nil
}

// getLocked fetches the settings row with a row lock, creating it with
// defaults if the company has none yet.
func getLocked(tx *gorm.DB, companyID domain.CompanyID) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	result := LockForUpdate(tx).
		Where("company_id = ?", companyID).
		First(&settings)

	if result.Error == gorm.ErrRecordNotFound {
		settings = domain.CompanySettings{
			CompanyID:         companyID,
			LastQuoteNumber:   0,
			LastInvoiceNumber: 0,
			QuotePrefix:       "Quotation",
			InvoicePrefix:     "INV",
			Currency:          domain.DefaultCurrency,
			PaymentTermsDays:  30,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to create company settings: %w", err)
		}
		return &settings, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get company settings: %w", result.Error)
	}
	return &settings, nil
}

// AllocateQuoteNumberTx atomically increments the quotation counter inside
// the caller's transaction and returns the settings row plus the allocated
// number. The row stays locked until the transaction commits, so the number
// is never handed out twice.
func (r *SettingsRepository) AllocateQuoteNumberTx(tx *gorm.DB, companyID domain.CompanyID) (*domain.CompanySettings, int, error) {
	settings, err := getLocked(tx, companyID)
	if err != nil {
		return nil, 0, err
	}

	next := settings.LastQuoteNumber + 1
	if err := tx.Model(settings).Updates(map[string]interface{}{
		"last_quote_number": next,
		"updated_at":        time.Now(),
	}).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to advance quote counter: %w", err)
	}
	settings.LastQuoteNumber = next

	return settings, next, nil
}

// AllocateInvoiceNumberTx atomically increments the invoice counter inside
// the caller's transaction. See AllocateQuoteNumberTx.
func (r *SettingsRepository) AllocateInvoiceNumberTx(tx *gorm.DB, companyID domain.CompanyID) (*domain.CompanySettings, int, error) {
	settings, err := getLocked(tx, companyID)
	if err != nil {
		return nil, 0, err
	}

	next := settings.LastInvoiceNumber + 1
	if err := tx.Model(settings).Updates(map[string]interface{}{
		"last_invoice_number": next,
		"updated_at":          time.Now(),
	}).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to advance invoice counter: %w", err)
	}
	settings.LastInvoiceNumber = next

	return settings, next, nil
}

// RaiseQuoteCounterTx raises the quotation counter to value if it is ahead
// of the stored counter. Used when a manually supplied label carries a
// higher trailing number than the counter so future automatic allocations
// do not collide with it. Never lowers the counter.
func (r *SettingsRepository) RaiseQuoteCounterTx(tx *gorm.DB, companyID domain.CompanyID, value int) (*domain.CompanySettings, error) {
	settings, err := getLocked(tx, companyID)
	if err != nil {
		return nil, err
	}

	if value > settings.LastQuoteNumber {
		if err := tx.Model(settings).Updates(map[string]interface{}{
			"last_quote_number": value,
			"updated_at":        time.Now(),
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to raise quote counter: %w", err)
		}
		settings.LastQuoteNumber = value
	}

	return settings, nil
}

// RaiseInvoiceCounterTx raises the invoice counter to value if it is ahead
// of the stored counter. See RaiseQuoteCounterTx.
func (r *SettingsRepository) RaiseInvoiceCounterTx(tx *gorm.DB, companyID domain.CompanyID, value int) (*domain.CompanySettings, error) {
	settings, err := getLocked(tx, companyID)
	if err != nil {
		return nil, err
	}

	if value > settings.LastInvoiceNumber {
		if err := tx.Model(settings).Updates(map[string]interface{}{
			"last_invoice_number": value,
			"updated_at":          time.Now(),
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to raise invoice counter: %w", err)
		}
		settings.LastInvoiceNumber = value
	}

	return settings, nil
}

// PeekQuoteNumber returns the number the next quotation would receive
// without mutating the counter. Concurrent allocations can still claim the
// returned number first; this is a preview, not a reservation.
func (r *SettingsRepository) PeekQuoteNumber(ctx context.Context, companyID domain.CompanyID) (*domain.CompanySettings, int, error) {
	settings, err := r.GetByCompany(ctx, companyID)
	if err == gorm.ErrRecordNotFound {
		return &domain.CompanySettings{
			CompanyID:        companyID,
			QuotePrefix:      "Quotation",
			InvoicePrefix:    "INV",
			Currency:         domain.DefaultCurrency,
			PaymentTermsDays: 30,
		}, 1, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return settings, settings.LastQuoteNumber + 1, nil
}

// PeekInvoiceNumber returns the number the next invoice would receive
// without mutating the counter.
func (r *SettingsRepository) PeekInvoiceNumber(ctx context.Context, companyID domain.CompanyID) (*domain.CompanySettings, int, error) {
	settings, err := r.GetByCompany(ctx, companyID)
	if err == gorm.ErrRecordNotFound {
		return &domain.CompanySettings{
			CompanyID:        companyID,
			QuotePrefix:      "Quotation",
			InvoicePrefix:    "INV",
			Currency:         domain.DefaultCurrency,
			PaymentTermsDays: 30,
		}, 1, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return settings, settings.LastInvoiceNumber + 1, nil
}

// Update persists changes to a settings row.
func (r *SettingsRepository) Update(ctx context.Context, settings *domain.CompanySettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
