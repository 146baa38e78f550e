package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/service"
	"github.com/highveld-fm/commercial-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSentInvoice drives a project to a sent invoice totalling 1725.00
// (subtotal 1500.00 plus 15% tax) and returns the invoice and quote IDs.
func setupSentInvoice(t *testing.T, env *testEnv, ctx context.Context) (invoiceID, quoteID uuid.UUID) {
	t.Helper()

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

	sent, err := env.workflow.SendInvoice(ctx, converted.Invoice.ID)
	require.NoError(t, err)

	return sent.ID, quote.ID
}

func TestRecordPartialPayment(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	resp, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 1000,
		Method: domain.PaymentMethodEFT,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPartial, resp.Invoice.Status)
	assert.InDelta(t, 1000.00, resp.Invoice.PaidToDate, 1e-9)
	require.NotNil(t, resp.Payment)
	assert.InDelta(t, 1000.00, resp.Payment.Amount, 1e-9)

	var project domain.Project
	require.NoError(t, env.db.First(&project, "id = ?", env.project.ID).Error)
	assert.Equal(t, domain.StagePayment, project.WorkflowStage)
	assert.Equal(t, domain.ProjectStatusInvoiced, project.Status, "partial payment does not complete the project")
}

func TestFullSettlementCascades(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, quoteID := setupSentInvoice(t, env, ctx)

	_, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 1000,
		Method: domain.PaymentMethodEFT,
	})
	require.NoError(t, err)

	resp, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 725,
		Method: domain.PaymentMethodEFT,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPaid, resp.Invoice.Status)
	assert.InDelta(t, 1725.00, resp.Invoice.PaidToDate, 1e-9)

	// Settlement cascades to the sibling quotation and the project.
	var quote domain.Invoice
	require.NoError(t, env.db.First(&quote, "id = ?", quoteID).Error)
	assert.Equal(t, domain.InvoiceStatusPaid, quote.Status)

	var project domain.Project
	require.NoError(t, env.db.First(&project, "id = ?", env.project.ID).Error)
	assert.Equal(t, domain.ProjectStatusCompleted, project.Status)
	assert.Equal(t, domain.StageCompleted, project.WorkflowStage)

	var count int64
	require.NoError(t, env.db.Model(&domain.AuditEntry{}).
		Where("milestone IN ?", []domain.Milestone{domain.MilestoneInvoicePaid, domain.MilestoneProjectCompleted}).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSettlementWithinTolerance(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	// One cent short still settles.
	resp, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 1724.99,
		Method: domain.PaymentMethodEFT,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, resp.Invoice.Status)
}

func TestPaidStatusNeverRegresses(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	_, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 1725,
		Method: domain.PaymentMethodEFT,
	})
	require.NoError(t, err)

	// A later adjustment entry keeps the invoice settled.
	resp, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 0.01,
		Method: domain.PaymentMethodOther,
		Notes:  "rounding adjustment",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, resp.Invoice.Status)
	assert.InDelta(t, 1725.01, resp.Invoice.PaidToDate, 1e-9)
}

func TestPaymentsAreAppendOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	for _, amount := range []float64{500, 300, 200} {
		_, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
			Amount: amount,
			Method: domain.PaymentMethodCash,
		})
		require.NoError(t, err)
	}

	payments, err := env.payments.ListPayments(ctx, invoiceID)
	require.NoError(t, err)
	require.Len(t, payments, 3, "every payment is a separate record")

	// Paid to date is derived from the full history, not incremented.
	var invoice domain.Invoice
	require.NoError(t, env.db.First(&invoice, "id = ?", invoiceID).Error)
	assert.InDelta(t, 1000.00, invoice.PaidToDate, 1e-9)
	assert.Equal(t, domain.InvoiceStatusPartial, invoice.Status)
}

func TestRecordPaymentRejectsWrongDocuments(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)

	resp := submitTestSOW(t, env, ctx)

	// Payments attach to invoices, never to quotations.
	_, err := env.payments.RecordPayment(ctx, resp.Quote.ID, &domain.RecordPaymentRequest{
		Amount: 100,
		Method: domain.PaymentMethodEFT,
	})
	assert.ErrorIs(t, err, service.ErrInvalidState)

	_, err = env.payments.RecordPayment(ctx, uuid.New(), &domain.RecordPaymentRequest{
		Amount: 100,
		Method: domain.PaymentMethodEFT,
	})
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestRecordPaymentRefusedOnCancelledInvoice(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	require.NoError(t, env.db.Model(&domain.Invoice{}).
		Where("id = ?", invoiceID).
		Update("status", domain.InvoiceStatusCancelled).Error)

	_, err := env.payments.RecordPayment(ctx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 100,
		Method: domain.PaymentMethodEFT,
	})
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestRecordPaymentIsTenantScoped(t *testing.T) {
	env := newTestEnv(t, nil)
	ownerCtx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	strangerCtx := testutil.ContextWithUser(testutil.CompanyB, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ownerCtx)

	_, err := env.payments.RecordPayment(strangerCtx, invoiceID, &domain.RecordPaymentRequest{
		Amount: 100,
		Method: domain.PaymentMethodEFT,
	})
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}
