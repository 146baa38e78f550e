package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/highveld-fm/commercial-api/internal/service"
	"github.com/highveld-fm/commercial-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateInvoiceItemsRecomputesTotals(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)

	updated, err := env.invoices.UpdateInvoiceItems(ctx, resp.Quote.ID, &domain.UpdateInvoiceItemsRequest{
		Items: []domain.InvoiceItemRequest{
			{Description: "Strip existing sheeting", Quantity: 10, UnitPrice: 100},
			{Description: "Install IBR sheeting", Quantity: 2, UnitPrice: 250},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1500.00, updated.Subtotal, 1e-9)
	assert.InDelta(t, 225.00, updated.TaxAmount, 1e-9)
	assert.InDelta(t, 1725.00, updated.Total, 1e-9)
	require.Len(t, updated.Items, 2)
	assert.InDelta(t, 1000.00, updated.Items[0].LineTotal, 1e-9)
}

func TestUpdateInvoiceItemsRefusedPastEditing(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	resp := submitTestSOW(t, env, ctx)
	_, err := env.workflow.SaveWBPDraft(ctx, resp.WBP.ID, &domain.SaveWBPDraftRequest{
		Items: []domain.WBPItemRequest{{Description: "Strip existing sheeting", Quantity: 10, UnitPrice: 100}},
	})
	require.NoError(t, err)
	quote, err := env.workflow.GenerateQuotationFromWBP(ctx, resp.WBP.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)
	_, err = env.workflow.ApproveQuote(ctx, quote.ID)
	require.NoError(t, err)

	// The quotation is accepted now; its lines are frozen.
	_, err = env.invoices.UpdateInvoiceItems(ctx, quote.ID, &domain.UpdateInvoiceItemsRequest{
		Items: []domain.InvoiceItemRequest{{Description: "Late change", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, service.ErrInvoiceNotEditable)
}

func TestUpdateInvoiceItemsUnknownInvoice(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleAdmin)

	_, err := env.invoices.UpdateInvoiceItems(ctx, uuid.New(), &domain.UpdateInvoiceItemsRequest{
		Items: []domain.InvoiceItemRequest{{Description: "Anything", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestSweepOverdueInvoices(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	// Backdate the due date so the invoice is past due.
	pastDue := time.Now().AddDate(0, 0, -3)
	require.NoError(t, env.db.Model(&domain.Invoice{}).
		Where("id = ?", invoiceID).
		Update("due_date", pastDue).Error)

	marked, err := env.invoices.SweepOverdueInvoices(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	var invoice domain.Invoice
	require.NoError(t, env.db.First(&invoice, "id = ?", invoiceID).Error)
	assert.Equal(t, domain.InvoiceStatusOverdue, invoice.Status)

	// The sweep leaves a milestone on the trail.
	var count int64
	require.NoError(t, env.db.Model(&domain.AuditEntry{}).
		Where("milestone = ?", domain.MilestoneInvoiceOverdue).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// A second sweep finds nothing; the invoice is no longer SENT.
	marked, err = env.invoices.SweepOverdueInvoices(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestSweepIgnoresInvoicesNotYetDue(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := testutil.ContextWithUser(testutil.CompanyA, domain.RoleFinance)
	invoiceID, _ := setupSentInvoice(t, env, ctx)

	marked, err := env.invoices.SweepOverdueInvoices(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, marked, "invoices inside their payment terms are left alone")

	var invoice domain.Invoice
	require.NoError(t, env.db.First(&invoice, "id = ?", invoiceID).Error)
	assert.Equal(t, domain.InvoiceStatusSent, invoice.Status)
}
