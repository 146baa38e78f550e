package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/auth"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/mapper"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PricingSource supplies historical unit prices for work descriptions.
// Implemented by the pricing warehouse client; may be nil when disabled.
type PricingSource interface {
	AverageUnitPrices(ctx context.Context, descriptions []string) (map[string]float64, error)
}

// WorkflowService drives the document lifecycle: scope of work submission,
// work breakdown drafting, quotation generation, quote approval and
// rejection. Every transition runs in a single transaction so the linked
// documents and the project state move together. Audit milestones are
// appended after commit and never fail the transition they describe.
type WorkflowService struct {
	db           *gorm.DB
	projectRepo  *repository.ProjectRepository
	sowRepo      *repository.ScopeOfWorkRepository
	wbpRepo      *repository.WorkBreakdownRepository
	invoiceRepo  *repository.InvoiceRepository
	settingsRepo *repository.SettingsRepository
	auditRepo    *repository.AuditRepository
	sequences    *SequenceService
	pricing      PricingSource
	logger       *zap.Logger
}

// NewWorkflowService creates a new WorkflowService. pricing may be nil when
// the pricing warehouse is disabled.
func NewWorkflowService(
	db *gorm.DB,
	projectRepo *repository.ProjectRepository,
	sowRepo *repository.ScopeOfWorkRepository,
	wbpRepo *repository.WorkBreakdownRepository,
	invoiceRepo *repository.InvoiceRepository,
	settingsRepo *repository.SettingsRepository,
	auditRepo *repository.AuditRepository,
	sequences *SequenceService,
	pricing PricingSource,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		db:           db,
		projectRepo:  projectRepo,
		sowRepo:      sowRepo,
		wbpRepo:      wbpRepo,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		sequences:    sequences,
		pricing:      pricing,
		logger:       logger,
	}
}

// SubmitScopeOfWork files a new scope of work version for a project and, in
// the same transaction, mirrors it into a draft work breakdown plan and
// reserves a quotation document with the next quote number. The three
// artifacts exist together or not at all.
func (s *WorkflowService) SubmitScopeOfWork(ctx context.Context, projectID uuid.UUID, req *domain.SubmitScopeOfWorkRequest) (*domain.SubmitScopeOfWorkResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var (
		sow   *domain.ScopeOfWork
		wbp   *domain.WorkBreakdown
		quote *domain.Invoice
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := s.sowRepo.NextVersionTx(tx, project.ID)
		if err != nil {
			return fmt.Errorf("failed to determine scope of work version: %w", err)
		}

		sow = &domain.ScopeOfWork{
			CompanyID: project.CompanyID,
			ProjectID: project.ID,
			Version:   version,
			Status:    domain.SOWStatusSubmitted,
			Title:     req.Title,
			Notes:     req.Notes,
		}
		for i, item := range req.Items {
			sow.Items = append(sow.Items, domain.SOWItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				Area:        item.Area,
				Position:    i,
			})
		}
		if err := tx.Create(sow).Error; err != nil {
			return fmt.Errorf("failed to create scope of work: %w", err)
		}

		// Mirror the scope lines into a draft work breakdown, unpriced.
		wbp = &domain.WorkBreakdown{
			CompanyID:     project.CompanyID,
			ProjectID:     project.ID,
			ScopeOfWorkID: sow.ID,
			Status:        domain.WBPStatusDraft,
		}
		for i, item := range req.Items {
			wbp.Items = append(wbp.Items, domain.WBPItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				UnitPrice:   0,
				Position:    i,
			})
		}
		if err := tx.Create(wbp).Error; err != nil {
			return fmt.Errorf("failed to create work breakdown: %w", err)
		}

		// Reserve the quotation number now so the client can reference it
		// while pricing is still in progress.
		number, label, err := s.sequences.NextQuoteNumberTx(tx, project.CompanyID, "")
		if err != nil {
			return fmt.Errorf("failed to allocate quotation number: %w", err)
		}

		quote = &domain.Invoice{
			CompanyID: project.CompanyID,
			ProjectID: project.ID,
			WBPID:     &wbp.ID,
			Type:      domain.InvoiceTypeQuote,
			Number:    number,
			Label:     label,
			Status:    domain.InvoiceStatusDraft,
			Currency:  domain.DefaultCurrency,
		}
		if err := tx.Create(quote).Error; err != nil {
			return translateNumberConflict(err, "failed to create quotation")
		}

		project.Status = domain.ProjectStatusSOWSubmitted
		project.WorkflowStage = domain.AdvanceStage(project.WorkflowStage, domain.StageSOW)
		if err := tx.Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordMilestone(ctx, project, "scope_of_work", sow.ID, domain.MilestoneSOWSubmitted,
		fmt.Sprintf("Scope of work v%d submitted, quotation %s reserved", sow.Version, quote.Label))

	s.logger.Info("scope of work submitted",
		zap.String("projectID", project.ID.String()),
		zap.Int("version", sow.Version),
		zap.String("quoteLabel", quote.Label))

	sowDTO := mapper.ToScopeOfWorkDTO(sow)
	wbpDTO := mapper.ToWorkBreakdownDTO(wbp)
	quoteDTO := mapper.ToInvoiceDTO(quote)
	projectDTO := mapper.ToProjectDTO(project)

	return &domain.SubmitScopeOfWorkResponse{
		ScopeOfWork: &sowDTO,
		WBP:         &wbpDTO,
		Quote:       &quoteDTO,
		Project:     &projectDTO,
	}, nil
}

// SaveWBPDraft replaces the items and notes of a draft work breakdown.
// Saving is idempotent and triggers no transitions; once the plan is
// approved further edits are refused.
func (s *WorkflowService) SaveWBPDraft(ctx context.Context, wbpID uuid.UUID, req *domain.SaveWBPDraftRequest) (*domain.WorkBreakdownDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wbp, err := s.wbpRepo.GetByIDTx(tx, wbpID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkBreakdownNotFound
			}
			return fmt.Errorf("failed to get work breakdown: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, wbp.CompanyID) {
			return ErrWorkBreakdownNotFound
		}
		if wbp.Status != domain.WBPStatusDraft {
			return ErrWBPNotDraft
		}

		items := make([]domain.WBPItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = domain.WBPItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				Unit:        item.Unit,
				UnitPrice:   item.UnitPrice,
			}
		}
		if err := s.wbpRepo.ReplaceItemsTx(tx, wbp.ID, items); err != nil {
			return fmt.Errorf("failed to replace work breakdown items: %w", err)
		}

		if err := tx.Model(&domain.WorkBreakdown{}).
			Where("id = ?", wbp.ID).
			Updates(map[string]interface{}{
				"notes":      req.Notes,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to update work breakdown: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	wbp, err := s.wbpRepo.GetByID(ctx, wbpID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload work breakdown: %w", err)
	}

	dto := mapper.ToWorkBreakdownDTO(wbp)
	return &dto, nil
}

// GenerateQuotationFromWBP prices the quotation that was reserved when the
// scope of work was submitted. The quotation keeps its number and label
// unless a manual label is supplied; the work breakdown is approved and
// locked against further edits in the same transaction.
func (s *WorkflowService) GenerateQuotationFromWBP(ctx context.Context, wbpID uuid.UUID, req *domain.GenerateQuotationRequest) (*domain.InvoiceDTO, error) {
	var (
		quoteID uuid.UUID
		project *domain.Project
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wbp, err := s.wbpRepo.GetByIDTx(tx, wbpID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkBreakdownNotFound
			}
			return fmt.Errorf("failed to get work breakdown: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, wbp.CompanyID) {
			return ErrWorkBreakdownNotFound
		}
		if wbp.Status != domain.WBPStatusDraft {
			return ErrWBPNotDraft
		}

		quote, err := s.invoiceRepo.GetQuoteByWBPTx(tx, wbp.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to get reserved quotation: %w", err)
		}
		quoteID = quote.ID

		// A manual label replaces the reserved number; the counter is
		// raised so automatic numbering never collides with it.
		if manual := strings.TrimSpace(req.ManualLabel); manual != "" {
			number, label, err := s.sequences.NextQuoteNumberTx(tx, wbp.CompanyID, manual)
			if err != nil {
				return fmt.Errorf("failed to apply manual label: %w", err)
			}
			quote.Number = number
			quote.Label = label
		}

		items := make([]domain.InvoiceItem, len(wbp.Items))
		for i, item := range wbp.Items {
			items[i] = domain.InvoiceItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   domain.RoundMoney(item.Quantity * item.UnitPrice),
			}
		}
		if err := s.invoiceRepo.ReplaceItemsTx(tx, quote.ID, items); err != nil {
			return fmt.Errorf("failed to copy work breakdown items: %w", err)
		}

		subtotal, tax, total := domain.ComputeTotals(items)
		now := time.Now()
		quote.Subtotal = subtotal
		quote.TaxAmount = tax
		quote.Total = total
		quote.IssueDate = &now
		quote.Items = nil
		if err := tx.Save(quote).Error; err != nil {
			return translateNumberConflict(err, "failed to update quotation")
		}

		if err := tx.Model(&domain.WorkBreakdown{}).
			Where("id = ?", wbp.ID).
			Updates(map[string]interface{}{
				"status":     domain.WBPStatusApproved,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to approve work breakdown: %w", err)
		}

		project, err = s.lockProject(tx, wbp.ProjectID)
		if err != nil {
			return err
		}
		project.Status = domain.ProjectStatusQuoted
		project.WorkflowStage = domain.AdvanceStage(project.WorkflowStage, domain.StageQuotation)
		if err := tx.Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	quote, err := s.invoiceRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}

	s.recordMilestone(ctx, project, "invoice", quote.ID, domain.MilestoneQuoteGenerated,
		fmt.Sprintf("Quotation %s generated (total %.2f %s)", quote.Label, quote.Total, quote.Currency))

	dto := mapper.ToInvoiceDTO(quote)
	return &dto, nil
}

// ApproveQuote marks a quotation as accepted and converts it into a new
// invoice document with a fresh invoice number and copied line items. A
// quotation can only be converted once; the second attempt fails rather
// than minting a duplicate invoice.
func (s *WorkflowService) ApproveQuote(ctx context.Context, quoteID uuid.UUID) (*domain.ConvertQuoteResponse, error) {
	var (
		invoiceID uuid.UUID
		project   *domain.Project
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.invoiceRepo.GetByIDTx(tx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to get quotation: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, quote.CompanyID) {
			return ErrInvoiceNotFound
		}
		if quote.Type != domain.InvoiceTypeQuote {
			return ErrInvalidState
		}
		if quote.Status == domain.InvoiceStatusAccepted || quote.Status == domain.InvoiceStatusPaid {
			return ErrQuoteAlreadyAccepted
		}

		settings, err := s.settingsRepo.GetByCompanyTx(tx, quote.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to load company settings: %w", err)
		}

		number, label, err := s.sequences.NextInvoiceNumberTx(tx, quote.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}

		now := time.Now()
		due := now.AddDate(0, 0, settings.PaymentTermsDays)

		invoice := &domain.Invoice{
			CompanyID:     quote.CompanyID,
			ProjectID:     quote.ProjectID,
			WBPID:         quote.WBPID,
			Type:          domain.InvoiceTypeInvoice,
			Number:        number,
			Label:         label,
			Status:        domain.InvoiceStatusDraft,
			Currency:      quote.Currency,
			Subtotal:      quote.Subtotal,
			TaxAmount:     quote.TaxAmount,
			Total:         quote.Total,
			IssueDate:     &now,
			DueDate:       &due,
			SourceQuoteID: &quote.ID,
			Notes:         quote.Notes,
		}
		for _, item := range quote.Items {
			invoice.Items = append(invoice.Items, domain.InvoiceItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
				Position:    item.Position,
			})
		}
		if err := tx.Create(invoice).Error; err != nil {
			return translateNumberConflict(err, "failed to create invoice")
		}
		invoiceID = invoice.ID

		quote.Status = domain.InvoiceStatusAccepted
		quote.Items = nil
		quote.Payments = nil
		if err := tx.Save(quote).Error; err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}

		project, err = s.lockProject(tx, quote.ProjectID)
		if err != nil {
			return err
		}
		project.Status = domain.ProjectStatusInvoiced
		project.WorkflowStage = domain.AdvanceStage(project.WorkflowStage, domain.StageInvoice)
		if err := tx.Save(project).Error; err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	quote, err := s.invoiceRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	s.recordMilestone(ctx, project, "invoice", quote.ID, domain.MilestoneQuoteAccepted,
		fmt.Sprintf("Quotation %s accepted", quote.Label))
	s.recordMilestone(ctx, project, "invoice", invoice.ID, domain.MilestoneInvoiceCreated,
		fmt.Sprintf("Invoice %s created from quotation %s", invoice.Label, quote.Label))

	quoteDTO := mapper.ToInvoiceDTO(quote)
	invoiceDTO := mapper.ToInvoiceDTO(invoice)
	return &domain.ConvertQuoteResponse{
		Quote:   &quoteDTO,
		Invoice: &invoiceDTO,
	}, nil
}

// RejectQuote marks a quotation as rejected by the client. An accepted or
// settled quotation can no longer be rejected.
func (s *WorkflowService) RejectQuote(ctx context.Context, quoteID uuid.UUID) (*domain.InvoiceDTO, error) {
	var project *domain.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.invoiceRepo.GetByIDTx(tx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("failed to get quotation: %w", err)
		}
		if !repository.MustHaveCompanyAccess(ctx, quote.CompanyID) {
			return ErrInvoiceNotFound
		}
		if quote.Type != domain.InvoiceTypeQuote {
			return ErrInvalidState
		}
		if quote.Status == domain.InvoiceStatusAccepted || quote.Status == domain.InvoiceStatusPaid {
			return ErrQuoteAlreadyAccepted
		}

		quote.Status = domain.InvoiceStatusRejected
		quote.Items = nil
		quote.Payments = nil
		if err := tx.Save(quote).Error; err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}

		project, err = s.lockProject(tx, quote.ProjectID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	quote, err := s.invoiceRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}

	s.recordMilestone(ctx, project, "invoice", quote.ID, domain.MilestoneQuoteRejected,
		fmt.Sprintf("Quotation %s rejected", quote.Label))

	dto := mapper.ToInvoiceDTO(quote)
	return &dto, nil
}

// SendInvoice transitions a draft document to sent and stamps the issue and
// due dates if they are not set yet. Works for quotations and invoices.
func (s *WorkflowService) SendInvoice(ctx context.Context, invoiceID uuid.UUID) (*domain.InvoiceDTO, error) {
	var project *domain.Project

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
		if invoice.Status != domain.InvoiceStatusDraft {
			return ErrInvalidState
		}

		now := time.Now()
		invoice.Status = domain.InvoiceStatusSent
		if invoice.IssueDate == nil {
			invoice.IssueDate = &now
		}
		if invoice.DueDate == nil && invoice.Type == domain.InvoiceTypeInvoice {
			settings, err := s.settingsRepo.GetByCompanyTx(tx, invoice.CompanyID)
			if err != nil {
				return fmt.Errorf("failed to load company settings: %w", err)
			}
			due := now.AddDate(0, 0, settings.PaymentTermsDays)
			invoice.DueDate = &due
		}
		invoice.Items = nil
		invoice.Payments = nil
		if err := tx.Save(invoice).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		project, err = s.lockProject(tx, invoice.ProjectID)
		if err != nil {
			return err
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

	s.recordMilestone(ctx, project, "invoice", invoice.ID, domain.MilestoneInvoiceSent,
		fmt.Sprintf("Document %s sent", invoice.Label))

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// SuggestUnitPrices fills unpriced lines of a draft work breakdown with
// average historical rates from the pricing warehouse. Lines that already
// carry a price are left alone.
func (s *WorkflowService) SuggestUnitPrices(ctx context.Context, wbpID uuid.UUID) (*domain.SuggestPricesResponse, error) {
	if s.pricing == nil {
		return nil, ErrPricingUnavailable
	}

	wbp, err := s.wbpRepo.GetByID(ctx, wbpID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkBreakdownNotFound
		}
		return nil, fmt.Errorf("failed to get work breakdown: %w", err)
	}
	if wbp.Status != domain.WBPStatusDraft {
		return nil, ErrWBPNotDraft
	}

	var descriptions []string
	for _, item := range wbp.Items {
		if item.UnitPrice == 0 {
			descriptions = append(descriptions, item.Description)
		}
	}
	if len(descriptions) == 0 {
		dto := mapper.ToWorkBreakdownDTO(wbp)
		return &domain.SuggestPricesResponse{WBP: &dto, Suggested: 0}, nil
	}

	prices, err := s.pricing.AverageUnitPrices(ctx, descriptions)
	if err != nil {
		s.logger.Warn("pricing warehouse lookup failed",
			zap.String("wbpID", wbpID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}

	suggested := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range wbp.Items {
			item := &wbp.Items[i]
			if item.UnitPrice != 0 {
				continue
			}
			price, ok := prices[item.Description]
			if !ok || price <= 0 {
				continue
			}
			item.UnitPrice = domain.RoundMoney(price)
			if err := tx.Model(&domain.WBPItem{}).
				Where("id = ?", item.ID).
				Update("unit_price", item.UnitPrice).Error; err != nil {
				return fmt.Errorf("failed to update item price: %w", err)
			}
			suggested++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToWorkBreakdownDTO(wbp)
	return &domain.SuggestPricesResponse{WBP: &dto, Suggested: suggested}, nil
}

// lockProject fetches a project row with a write lock inside a transaction.
func (s *WorkflowService) lockProject(tx *gorm.DB, projectID uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := repository.LockForUpdate(tx).Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}
	return &project, nil
}

// recordMilestone appends an audit entry after the transition committed.
// Recording is best effort; a failed write is logged and swallowed so the
// trail can never sink the transition it describes.
func (s *WorkflowService) recordMilestone(ctx context.Context, project *domain.Project, entityType string, entityID uuid.UUID, milestone domain.Milestone, detail string) {
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

// translateNumberConflict maps unique index violations on the document
// number to ErrNumberConflict so handlers can report them distinctly.
func translateNumberConflict(err error, msg string) error {
	if err == nil {
		return nil
	}
	text := err.Error()
	if strings.Contains(text, "duplicate key") || strings.Contains(text, "UNIQUE constraint") {
		return fmt.Errorf("%w: %v", ErrNumberConflict, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
