package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService records payments and reconciles invoice settlement state.
// Payments are append-only; the paid-to-date figure on an invoice is always
// recomputed from the full payment history inside the recording
// transaction, never incremented in place.
type PaymentService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	paymentRepo *repository.PaymentRepository
	auditRepo   *repository.AuditRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	auditRepo *repository.AuditRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		db:          db,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// RecordPayment appends a payment against an invoice and reconciles its
// status in one transaction. Settlement moves forward only: a settled
// invoice never regresses to PARTIAL, and full settlement cascades to the
// sibling quotation and the project. Milestones are recorded after commit.
func (s *PaymentService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error) {
	var (
		paymentID uuid.UUID
		project   *domain.Project
		settled   bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.invoiceRepo.GetByIDTx(tx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, invoice.CompanyID) {
			return ErrInvoiceNotFound
		}
		if invoice.Type != domain.InvoiceTypeInvoice {
			return ErrInvalidState
		}
		if invoice.Status == domain.InvoiceStatusRejected || invoice.Status == domain.InvoiceStatusCancelled {
			return ErrInvalidState
		}

		paidAt := time.Now()
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}

		payment := &domain.Payment{
			CompanyID: invoice.CompanyID,
			InvoiceID: invoice.ID,
			Amount:    domain.RoundMoney(req.Amount),
			Method:    req.Method,
			PaidAt:    paidAt,
			Notes:     req.Notes,
		}
		if err := s.paymentRepo.CreateTx(tx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		paymentID = payment.ID

		// Derive paid-to-date from the full history, including the new row.
		paidToDate, err := s.paymentRepo.SumByInvoiceTx(tx, invoice.ID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		paidToDate = domain.RoundMoney(paidToDate)

		newStatus := invoice.Status
		switch {
		case invoice.Status == domain.InvoiceStatusPaid:
			// Settlement never regresses, even if an adjustment entry
			// leaves the balance short again.
		case domain.IsSettled(paidToDate, invoice.Total):
			newStatus = domain.InvoiceStatusPaid
		default:
			newStatus = domain.InvoiceStatusPartial
		}

		invoice.PaidToDate = paidToDate
		invoice.Status = newStatus
		invoice.Items = nil
		invoice.Payments = nil
		if err := tx.Save(invoice).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		project, err = s.lockProject(tx, invoice.ProjectID)
		if err != nil {
			return err
		}

		settled = newStatus == domain.InvoiceStatusPaid
		if settled {
			if err := s.settleCascadeTx(tx, invoice, project); err != nil {
				return err
			}
		} else {
			project.WorkflowStage = domain.AdvanceStage(project.WorkflowStage, domain.StagePayment)
			if err := tx.Save(project).Error; err != nil {
				return fmt.Errorf("failed to update project: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	s.recordMilestone(ctx, project, "invoice", invoice.ID, domain.MilestonePaymentRecorded,
		fmt.Sprintf("Payment of %.2f %s recorded against %s (paid to date %.2f of %.2f)",
			domain.RoundMoney(req.Amount), invoice.Currency, invoice.Label, invoice.PaidToDate, invoice.Total))
	if settled {
		s.recordMilestone(ctx, project, "invoice", invoice.ID, domain.MilestoneInvoicePaid,
			fmt.Sprintf("Invoice %s settled in full", invoice.Label))
		s.recordMilestone(ctx, project, "project", project.ID, domain.MilestoneProjectCompleted,
			fmt.Sprintf("Project '%s' completed", project.Name))
	}

	var paymentDTO domain.PaymentDTO
	for i := range invoice.Payments {
		if invoice.Payments[i].ID == paymentID {
			paymentDTO = mapper.ToPaymentDTO(&invoice.Payments[i])
			break
		}
	}

	invoiceDTO := mapper.ToInvoiceDTO(invoice)
	return &domain.RecordPaymentResponse{
		Payment: &paymentDTO,
		Invoice: &invoiceDTO,
	}, nil
}

// settleCascadeTx propagates full settlement: the sibling quotation is
// marked paid and the project completes.
func (s *PaymentService) settleCascadeTx(tx *gorm.DB, invoice *domain.Invoice, project *domain.Project) error {
	if invoice.WBPID != nil {
		if err := tx.Model(&domain.Invoice{}).
			Where("wbp_id = ? AND type = ?", *invoice.WBPID, domain.InvoiceTypeQuote).
			Updates(map[string]interface{}{
				"status":     domain.InvoiceStatusPaid,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to settle sibling quotation: %w", err)
		}
	}

	project.Status = domain.ProjectStatusCompleted
	project.WorkflowStage = domain.AdvanceStage(project.WorkflowStage, domain.StageCompleted)
	if err := tx.Save(project).Error; err != nil {
		return fmt.Errorf("failed to complete project: %w", err)
	}
	return nil
}

// ListPayments returns the payment history of an invoice in chronological
// order.
func (s *PaymentService) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentDTO, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	payments, err := s.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	dtos := make([]domain.PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = mapper.ToPaymentDTO(&payments[i])
	}
	return dtos, nil
}

func (s *PaymentService) lockProject(tx *gorm.DB, projectID uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := repository.LockForUpdate(tx).Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}
	return &project, nil
}

// recordMilestone appends an audit entry after the transaction committed.
// Failures are logged and swallowed; the trail never fails a payment.
func (s *PaymentService) recordMilestone(ctx context.Context, project *domain.Project, entityType string, entityID uuid.UUID, milestone domain.Milestone, detail string) {
	entry := &domain.AuditEntry{
		CompanyID:  project.CompanyID,
		ProjectID:  &project.ID,
		EntityType: entityType,
		EntityID:   entityID,
		Milestone:  milestone,
		Detail:     detail,
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		entry.ActorID = userCtx.UserID.String()
		entry.ActorName = userCtx.DisplayName
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record milestone",
			zap.String("milestone", string(milestone)),
			zap.String("entityID", entityID.String()),
			zap.Error(err))
	}
}
