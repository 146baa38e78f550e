package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/highveld-fm/commercial-api/internal/repository"
	"github.com/highveld-fm/commercial-api/internal/service"
	"github.com/highveld-fm/commercial-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		year     int
		seq      int
		expected string
	}{
		{name: "pads to three digits", prefix: "Quotation", year: 2026, seq: 7, expected: "Quotation-2026-007"},
		{name: "two digit sequence", prefix: "INV", year: 2026, seq: 42, expected: "INV-2026-042"},
		{name: "wide sequence keeps full width", prefix: "INV", year: 2026, seq: 1042, expected: "INV-2026-1042"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.FormatLabel(tc.prefix, tc.year, tc.seq))
		})
	}
}

func TestParseTrailingNumber(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected int
		ok       bool
	}{
		{name: "standard label", label: "Quotation-2026-099", expected: 99, ok: true},
		{name: "short label", label: "Q-7", expected: 7, ok: true},
		{name: "bare number", label: "125", expected: 125, ok: true},
		{name: "trailing whitespace", label: "INV-2026-012  ", expected: 12, ok: true},
		{name: "no trailing digits", label: "Quotation-final", ok: false},
		{name: "digits in the middle only", label: "Q-2026-draft", ok: false},
		{name: "zero is rejected", label: "Q-0", ok: false},
		{name: "empty", label: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := service.ParseTrailingNumber(tc.label)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, n)
			}
		})
	}
}

func TestQuoteNumbersAreSequentialPerCompany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())
	year := time.Now().Year()

	for i := 1; i <= 3; i++ {
		number, label, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
		require.NoError(t, err)
		assert.Equal(t, i, number)
		assert.Equal(t, fmt.Sprintf("Quotation-%d-%03d", year, i), label)
	}

	// The second company draws from its own counter.
	number, _, err := svc.NextQuoteNumberTx(db, testutil.CompanyB, "")
	require.NoError(t, err)
	assert.Equal(t, 1, number)
}

func TestInvoiceSequenceIsIndependentOfQuotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
		require.NoError(t, err)
	}

	number, label, err := svc.NextInvoiceNumberTx(db, testutil.CompanyA)
	require.NoError(t, err)
	assert.Equal(t, 1, number)
	assert.Contains(t, label, "INV-")
}

func TestManualLabelRaisesCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())

	number, label, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "Q-2024-099")
	require.NoError(t, err)
	assert.Equal(t, 99, number)
	assert.Equal(t, "Q-2024-099", label, "manual label is kept verbatim")

	// The next automatic allocation continues past the manual number.
	number, _, err = svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
	require.NoError(t, err)
	assert.Equal(t, 100, number)
}

func TestManualLabelBehindCounterDoesNotLowerIt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())

	for i := 0; i < 10; i++ {
		_, _, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
		require.NoError(t, err)
	}

	number, label, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "Q-3")
	require.NoError(t, err)
	assert.Equal(t, 3, number)
	assert.Equal(t, "Q-3", label)

	number, _, err = svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
	require.NoError(t, err)
	assert.Equal(t, 11, number, "counter stays ahead of the manual number")
}

func TestManualLabelWithoutDigitsUsesAutomaticNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())

	number, label, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "Quotation-final")
	require.NoError(t, err)
	assert.Equal(t, 1, number)
	assert.Equal(t, "Quotation-final", label, "label text is still kept")

	number, _, err = svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
	require.NoError(t, err)
	assert.Equal(t, 2, number)
}

func TestPeekDoesNotConsumeNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewSequenceService(repository.NewSettingsRepository(db), zap.NewNop())
	ctx := testutil.ContextWithCompany(testutil.CompanyA)

	// Peeking before any settings row exists previews number 1.
	preview, err := svc.PeekQuoteNumber(ctx, testutil.CompanyA)
	require.NoError(t, err)
	assert.Equal(t, 1, preview.Number)

	preview, err = svc.PeekQuoteNumber(ctx, testutil.CompanyA)
	require.NoError(t, err)
	assert.Equal(t, 1, preview.Number, "repeated peeks return the same number")

	number, _, err := svc.NextQuoteNumberTx(db, testutil.CompanyA, "")
	require.NoError(t, err)
	assert.Equal(t, 1, number, "allocation hands out the previewed number")

	preview, err = svc.PeekQuoteNumber(ctx, testutil.CompanyA)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.Number)

	invoicePreview, err := svc.PeekInvoiceNumber(ctx, testutil.CompanyA)
	require.NoError(t, err)
	assert.Equal(t, 1, invoicePreview.Number, "invoice counter is untouched")
}
