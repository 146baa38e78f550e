package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SequenceService hands out quotation and invoice numbers from the
// per-company counters. Quotations and invoices draw from independent
// sequences; each allocation happens inside the caller's transaction so a
// rolled-back document never burns a number silently out of band.
//
// Label format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: Quotation-2026-007, INV-2026-012
type SequenceService struct {
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

// NewSequenceService creates a new SequenceService
func NewSequenceService(settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SequenceService {
	return &SequenceService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// FormatLabel renders the printable document label.
// Format: PREFIX-YYYY-NNN (zero-padded to 3 digits; wider numbers keep
// their full width).
func FormatLabel(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// ParseTrailingNumber extracts the trailing digit run from a manually
// supplied label. "Quotation-2026-099" yields 99; a label with no trailing
// digits yields ok=false.
func ParseTrailingNumber(label string) (int, bool) {
	trimmed := strings.TrimSpace(label)
	end := len(trimmed)
	start := end
	for start > 0 && trimmed[start-1] >= '0' && trimmed[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[start:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextQuoteNumberTx allocates the next quotation number and label inside
// the caller's transaction.
//
// When manualLabel is supplied it is kept verbatim as the label. Its
// trailing digits become the document number and the counter is raised to
// at least that value so later automatic allocations cannot collide. A
// manual label without trailing digits falls back to the automatic
// counter; the allocation never fails on account of the label's shape.
func (s *SequenceService) NextQuoteNumberTx(tx *gorm.DB, companyID domain.CompanyID, manualLabel string) (int, string, error) {
	if manual := strings.TrimSpace(manualLabel); manual != "" {
		if n, ok := ParseTrailingNumber(manual); ok {
			if _, err := s.settingsRepo.RaiseQuoteCounterTx(tx, companyID, n); err != nil {
				return 0, "", err
			}
			s.logger.Info("manual quotation label accepted",
				zap.String("companyID", string(companyID)),
				zap.String("label", manual),
				zap.Int("number", n))
			return n, manual, nil
		}

		// No trailing digits to anchor on: take the next automatic number
		// but keep the caller's label text.
		settings, next, err := s.settingsRepo.AllocateQuoteNumberTx(tx, companyID)
		if err != nil {
			return 0, "", err
		}
		s.logger.Warn("manual quotation label has no trailing number, using automatic sequence",
			zap.String("companyID", string(companyID)),
			zap.String("label", manual),
			zap.Int("number", next),
			zap.String("prefix", settings.QuotePrefix))
		return next, manual, nil
	}

	settings, next, err := s.settingsRepo.AllocateQuoteNumberTx(tx, companyID)
	if err != nil {
		return 0, "", err
	}
	label := FormatLabel(settings.QuotePrefix, time.Now().Year(), next)

	s.logger.Info("allocated quotation number",
		zap.String("companyID", string(companyID)),
		zap.Int("number", next),
		zap.String("label", label))

	return next, label, nil
}

// NextInvoiceNumberTx allocates the next invoice number and label inside
// the caller's transaction. Invoice numbers never accept manual labels;
// the invoice sequence stays gap-free under normal operation.
func (s *SequenceService) NextInvoiceNumberTx(tx *gorm.DB, companyID domain.CompanyID) (int, string, error) {
	settings, next, err := s.settingsRepo.AllocateInvoiceNumberTx(tx, companyID)
	if err != nil {
		return 0, "", err
	}
	label := FormatLabel(settings.InvoicePrefix, time.Now().Year(), next)

	s.logger.Info("allocated invoice number",
		zap.String("companyID", string(companyID)),
		zap.Int("number", next),
		zap.String("label", label))

	return next, label, nil
}

// PeekQuoteNumber previews the next quotation number and label without
// consuming them. A concurrent allocation may still claim the number first.
func (s *SequenceService) PeekQuoteNumber(ctx context.Context, companyID domain.CompanyID) (*domain.NextNumberResponse, error) {
	settings, next, err := s.settingsRepo.PeekQuoteNumber(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to peek quote number: %w", err)
	}
	return &domain.NextNumberResponse{
		Number: next,
		Label:  FormatLabel(settings.QuotePrefix, time.Now().Year(), next),
	}, nil
}

// PeekInvoiceNumber previews the next invoice number and label without
// consuming them.
func (s *SequenceService) PeekInvoiceNumber(ctx context.Context, companyID domain.CompanyID) (*domain.NextNumberResponse, error) {
	settings, next, err := s.settingsRepo.PeekInvoiceNumber(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to peek invoice number: %w", err)
	}
	return &domain.NextNumberResponse{
		Number: next,
		Label:  FormatLabel(settings.InvoicePrefix, time.Now().Year(), next),
	}, nil
}
