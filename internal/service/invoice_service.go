package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService handles reads and line item edits on quotations and
// invoices. Lifecycle transitions live in WorkflowService.
type InvoiceService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	auditRepo   *repository.AuditRepository
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(db *gorm.DB, invoiceRepo *repository.InvoiceRepository, auditRepo *repository.AuditRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		db:          db,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// GetInvoice returns a single quotation or invoice with its items and
// payment history.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// ListInvoices returns a filtered page of documents.
func (s *InvoiceService) ListInvoices(ctx context.Context, page, pageSize int, projectID *uuid.UUID, docType *domain.InvoiceType, status *domain.InvoiceStatus, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > repository.MaxPageSize {
		pageSize = 50
	}

	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, projectID, docType, status, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = mapper.ToInvoiceDTO(&invoices[i])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// UpdateInvoiceItems replaces the line items of an editable document and
// recomputes its totals server-side. Documents past editing (accepted,
// rejected, partially or fully paid) refuse the change.
func (s *InvoiceService) UpdateInvoiceItems(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceItemsRequest) (*domain.InvoiceDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.GetByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, invoice.CompanyID) {
			return ErrInvoiceNotFound
		}
		if !invoice.Status.IsEditable() {
			return ErrInvoiceNotEditable
		}

		items := make([]domain.InvoiceItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = domain.InvoiceItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   domain.RoundMoney(item.Quantity * item.UnitPrice),
			}
		}
		if err := s.invoiceRepo.ReplaceItemsTx(tx, invoice.ID, items); err != nil {
			return fmt.Errorf("failed to replace invoice items: %w", err)
		}

		subtotal, tax, total := domain.ComputeTotals(items)
		if err := tx.Model(&domain.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"subtotal":   subtotal,
				"tax_amount": tax,
				"total":      total,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to update invoice totals: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// SweepOverdueInvoices marks SENT invoices whose due date has passed as
// OVERDUE and records a milestone for each. Runs without a tenant scope;
// it is invoked by the background scheduler, not by request handlers.
func (s *InvoiceService) SweepOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.invoiceRepo.ListOverdueCandidates(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	marked := 0
	for i := range candidates {
		invoice := &candidates[i]

		if err := s.db.WithContext(ctx).Model(&domain.Invoice{}).
			Where("id = ? AND status = ?", invoice.ID, domain.InvoiceStatusSent).
			Updates(map[string]interface{}{
				"status":     domain.InvoiceStatusOverdue,
				"updated_at": time.Now(),
			}).Error; err != nil {
			s.logger.Warn("failed to mark invoice overdue",
				zap.String("invoiceID", invoice.ID.String()),
				zap.Error(err))
			continue
		}
		marked++

		entry := &domain.AuditEntry{
			CompanyID:  invoice.CompanyID,
			ProjectID:  &invoice.ProjectID,
			EntityType: "invoice",
			EntityID:   invoice.ID,
			Milestone:  domain.MilestoneInvoiceOverdue,
			Detail:     fmt.Sprintf("invoice %s past due date", invoice.Label),
			ActorName:  "system",
		}
		if err := s.auditRepo.Create(ctx, entry); err != nil {
			s.logger.Warn("failed to record milestone",
				zap.String("milestone", string(domain.MilestoneInvoiceOverdue)),
				zap.String("entityID", invoice.ID.String()),
				zap.Error(err))
		}
	}

	if marked > 0 {
		s.logger.Info("overdue sweep completed",
			zap.Int("marked", marked),
			zap.Int("candidates", len(candidates)))
	}
	return marked, nil
}
