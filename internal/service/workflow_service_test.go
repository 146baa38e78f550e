package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"github.com/highveld-fm/commercial-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires the full service stack over an in-memory database
type testEnv struct {
	db        *gorm.DB
	workflow  *service.WorkflowService
	payments  *service.PaymentService
	invoices  *service.InvoiceService
	sequences *service.SequenceService
	project   *domain.Project
}

func newTestEnv(t *testing.T, pricing service.PricingSource) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	projectRepo := repository.NewProjectRepository(db)
	sowRepo := repository.NewScopeOfWorkRepository(db)
	wbpRepo := repository.NewWorkBreakdownRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	sequences := service.NewSequenceService(settingsRepo, log)

	client := testutil.CreateTestClient(t, db, testutil.CompanyA, "Mkhize Holdings")
	project := testutil.CreateTestProject(t, db, testutil.CompanyA, client.ID, "Warehouse refit")

	return &testEnv{
		db:        db,
		workflow:  service.NewWorkflowService(db, projectRepo, sowRepo, wbpRepo, invoiceRepo, settingsRepo, auditRepo, sequences, pricing, log),
		payments:  service.NewPaymentService(db, invoiceRepo, paymentRepo, auditRepo, log),
		invoices:  service.NewInvoiceService(db, invoiceRepo, auditRepo, log),
		sequences: sequences,
		project:   project,
	}
}

func submitTestSOW(t *testing.T, env *testEnv, ctx context.Context) *domain.SubmitScopeOfWorkResponse {
	t.Helper()
	resp, err := env.workflow.SubmitScopeOfWork(ctx, env.project.ID, &domain.SubmitScopeOfWorkRequest{
		Title: "Roof replacement",
		Notes: "Access via service entrance",
		Items: []domain.SOWItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", Area: "North wing"},
			{Description: "Install IBR sheeting", Quantity: 2, Unit: "bay"},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestSubmitScopeOfWorkCreatesLinkedArtifacts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	require.NotNil(t, resp.ScopeOfWork)
	assert.Equal(t, 1, resp.ScopeOfWork.Version)
	assert.Equal(t, domain.SOWStatusSubmitted, resp.ScopeOfWork.Status)
	assert.Len(t, resp.ScopeOfWork.Items, 2)

	require.NotNil(t, resp.WBP)
	assert.Equal(t, domain.WBPStatusDraft, resp.WBP.Status)
	require.Len(t, resp.WBP.Items, 2)
	for _, item := range resp.WBP.Items {
		assert.Zero(t, item.UnitPrice, "mirrored lines start unpriced")
	}

	require.NotNil(t, resp.Quote)
	assert.Equal(t, domain.InvoiceTypeQuote, resp.Quote.Type)
	assert.Equal(t, domain.InvoiceStatusDraft, resp.Quote.Status)
	assert.Equal(t, 1, resp.Quote.Number)
	assert.Contains(t, resp.Quote.Label, "Quotation-")

	require.NotNil(t, resp.Project)
	assert.Equal(t, domain.ProjectStatusSOWSubmitted, resp.Project.Status)
	assert.Equal(t, domain.StageSOW, resp.Project.WorkflowStage,
		"submission keeps the project in the scope stage until the plan is priced")

	// The trail records the submission.
	var count int64
	require.NoError(t, env.db.Model(&domain.AuditEntry{}).
		Where("milestone = ?", domain.MilestoneSOWSubmitted).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitScopeOfWorkVersionsAreAppendOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	first := submitTestSOW(t, env, ctx)
	second := submitTestSOW(t, env, ctx)

	assert.Equal(t, 1, first.ScopeOfWork.Version)
	assert.Equal(t, 2, second.ScopeOfWork.Version)
	assert.NotEqual(t, first.ScopeOfWork.ID, second.ScopeOfWork.ID)

	// Each submission reserves its own quotation number.
	assert.Equal(t, 1, first.Quote.Number)
	assert.Equal(t, 2, second.Quote.Number)

	var count int64
	require.NoError(t, env.db.Model(&domain.ScopeOfWork{}).
		Where("project_id = ?", env.project.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count, "earlier versions are never overwritten")
}

func TestSaveWBPDraftIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	req := &domain.SaveWBPDraftRequest{
		Notes: "First pass",
		Items: []domain.WBPItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", UnitPrice: 100},
			{Description: "Install IBR sheeting", Quantity: 2, Unit: "bay", UnitPrice: 250},
		},
	}

	dto, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, req)
	require.NoError(t, err)
	assert.Len(t, dto.Items, 2)

	dto, err = env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, req)
	require.NoError(t, err)
	assert.Len(t, dto.Items, 2, "saving the same draft twice does not duplicate lines")
	assert.Equal(t, domain.WBPStatusDraft, dto.Status, "saving a draft triggers no transition")

	var itemCount int64
	require.NoError(t, env.db.Model(&domain.WBPItem{}).
		Where("work_breakdown_id = ?", resp.WBP.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)
}

func TestGenerateQuotationKeepsReservedNumber(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)
	reservedNumber := resp.Quote.Number
	reservedLabel := resp.Quote.Label

	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", UnitPrice: 100},
			{Description: "Install IBR sheeting", Quantity: 2, Unit: "bay", UnitPrice: 250},
		},
	})
	require.NoError(t, err)

	quote, err := env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)

	assert.Equal(t, reservedNumber, quote.Number, "quotation keeps the number reserved at submission")
	assert.Equal(t, reservedLabel, quote.Label)
	assert.InDelta(t, 1500.00, quote.Subtotal, 1e-9)
	assert.InDelta(t, 225.00, quote.TaxAmount, 1e-9)
	assert.InDelta(t, 1725.00, quote.Total, 1e-9)
	require.Len(t, quote.Items, 2)
	assert.NotNil(t, quote.IssueDate)

	// The worksheet is approved and locked.
	var wbp domain.WorkBreakdown
	require.NoError(t, env.db.First(&wbp, "id = ?", resp.WBP.ID).Error)
	assert.Equal(t, domain.WBPStatusApproved, wbp.Status)

	var project domain.Project
	require.NoError(t, env.db.First(&project, "id = ?", env.project.ID).Error)
	assert.Equal(t, domain.ProjectStatusQuoted, project.Status)
	assert.Equal(t, domain.StageQuotation, project.WorkflowStage,
		"pricing the plan moves the project into the quotation stage")

	// Further edits and a second generation are refused.
	_, err = env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{{Description: "Late change", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, service.ErrWBPNotDraft)

	_, err = env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{})
	assert.ErrorIs(t, err, service.ErrWBPNotDraft)
}

func TestGenerateQuotationWithManualLabel(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", UnitPrice: 100},
		},
	})
	require.NoError(t, err)

	quote, err := env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{
		ManualLabel: "Q-2026-050",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, quote.Number)
	assert.Equal(t, "Q-2026-050", quote.Label)

	// The counter moved past the manual number.
	next := submitTestSOW(t, env, ctx)
	assert.Equal(t, 51, next.Quote.Number)
}

func TestApproveQuoteCreatesInvoiceOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)

	resp := submitTestSOW(t, env, ctx)
	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", UnitPrice: 100},
			{Description: "Install IBR sheeting", Quantity: 2, Unit: "bay", UnitPrice: 250},
		},
	})
	require.NoError(t, err)
	quote, err := env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)

	converted, err := env.workflow.ApproveQuote(ctx, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusAccepted, converted.Quote.Status)

	invoice := converted.Invoice
	require.NotNil(t, invoice)
	assert.Equal(t, domain.InvoiceTypeInvoice, invoice.Type)
	assert.Equal(t, 1, invoice.Number, "invoice draws from its own sequence")
	assert.Contains(t, invoice.Label, "INV-")
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.InDelta(t, quote.Total, invoice.Total, 1e-9)
	require.Len(t, invoice.Items, 2, "line items are copied onto the invoice")
	require.NotNil(t, invoice.SourceQuoteID)
	assert.Equal(t, quote.ID, *invoice.SourceQuoteID)
	require.NotNil(t, invoice.DueDate)

	var project domain.Project
	require.NoError(t, env.db.First(&project, "id = ?", env.project.ID).Error)
	assert.Equal(t, domain.ProjectStatusInvoiced, project.Status)
	assert.Equal(t, domain.StageInvoice, project.WorkflowStage)

	// Approving again must not mint a second invoice.
	_, err = env.workflow.ApproveQuote(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrQuoteAlreadyAccepted)

	var invoiceCount int64
	require.NoError(t, env.db.Model(&domain.Invoice{}).
		Where("type = ?", domain.InvoiceTypeInvoice).Count(&invoiceCount).Error)
	assert.Equal(t, int64(1), invoiceCount)
}

func TestRejectQuote(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	quote, err := env.workflow.RejectQuote(ctx, resp.Quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusRejected, quote.Status)

	// A rejected quotation cannot be approved afterwards, and an accepted
	// one cannot be rejected.
	second := submitTestSOW(t, env, ctx)
	_, err = env.workflow.SaveWBPDraft(ctx, second.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{{Description: "Install IBR sheeting", Quantity: 2, UnitPrice: 250}},
	})
	require.NoError(t, err)
	generated, err := env.workflow.GenerateQuotationFromWBP(ctx, second.WBP.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)
	_, err = env.workflow.ApproveQuote(ctx, generated.ID)
	require.NoError(t, err)

	_, err = env.workflow.RejectQuote(ctx, generated.ID)
	assert.ErrorIs(t, err, service.ErrQuoteAlreadyAccepted)
}

func TestSendInvoiceStampsDates(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)

	resp := submitTestSOW(t, env, ctx)
	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{{Description: "Strip existing sheeting", Quantity: 10, UnitPrice: 100}},
	})
	require.NoError(t, err)
	quote, err := env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)
	converted, err := env.workflow.ApproveQuote(ctx, quote.ID)
	require.NoError(t, err)

	sent, err := env.workflow.SendInvoice(ctx, converted.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.IssueDate)
	require.NotNil(t, sent.DueDate)
	assert.True(t, sent.DueDate.After(time.Now()), "due date lies in the future")

	// Sending twice is refused.
	_, err = env.workflow.SendInvoice(ctx, converted.Invoice.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestWorkflowIsTenantScoped(t *testing.T) {
	env := newTestEnv(t, nil)
	ownerCtx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)
	strangerCtx := testutil.ContextWithUser(testutil.CompanyB, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ownerCtx)

	_, err := env.workflow.SaveWBPDraft(strangerCtx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{{Description: "Anything", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, service.ErrWorkBreakdownNotFound,
		"another tenant's documents look like they do not exist")

	_, err = env.workflow.ApproveQuote(strangerCtx, resp.Quote.ID)
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

// stubPricing returns fixed unit prices for known descriptions
type stubPricing struct {
	prices map[string]float64
	err    error
}

func (s *stubPricing) AverageUnitPrices(_ context.Context, descriptions []string) (map[string]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]float64)
	for _, d := range descriptions {
		if p, ok := s.prices[d]; ok {
			out[d] = p
		}
	}
	return out, nil
}

func TestSuggestUnitPricesFillsOnlyUnpricedLines(t *testing.T) {
	pricing := &stubPricing{prices: map[string]float64{
		"Strip existing sheeting": 95.5,
		"Install IBR sheeting":    240.0,
	}}
	env := newTestEnv(t, pricing)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	// Price one line manually; the suggestion must leave it alone.
	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, Unit: "m2", UnitPrice: 120},
			{Description: "Install IBR sheeting", Quantity: 2, Unit: "bay", UnitPrice: 0},
		},
	})
	require.NoError(t, err)

	suggested, err := env.workflow.SuggestUnitPrices(ctx, resp.WBP.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, suggested.Suggested)

	byDescription := make(map[string]float64)
	for _, item := range suggested.WBP.Items {
		byDescription[item.Description] = item.UnitPrice
	}
	assert.InDelta(t, 120.0, byDescription["Strip existing sheeting"], 1e-9, "manual price is kept")
	assert.InDelta(t, 240.0, byDescription["Install IBR sheeting"], 1e-9, "historical price is filled in")
}

func TestSuggestUnitPricesWithoutWarehouse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	_, err := env.workflow.SuggestUnitPrices(ctx, resp.WBP.ID)
	assert.ErrorIs(t, err, service.ErrPricingUnavailable)
}
