package domain_test

import (
	"testing"

	"github.com/highveld-fm/commercial-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{name: "already rounded", in: 12.34, expected: 12.34},
		{name: "rounds half up", in: 0.005, expected: 0.01},
		{name: "rounds down below half", in: 1.234, expected: 1.23},
		{name: "rounds up above half", in: 1.236, expected: 1.24},
		{name: "negative rounds away from zero", in: -0.005, expected: -0.01},
		{name: "zero", in: 0, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, domain.RoundMoney(tc.in), 1e-9)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	items := []domain.InvoiceItem{
		{Quantity: 10, UnitPrice: 100},
		{Quantity: 2, UnitPrice: 250},
	}

	subtotal, tax, total := domain.ComputeTotals(items)

	assert.InDelta(t, 1500.00, subtotal, 1e-9)
	assert.InDelta(t, 225.00, tax, 1e-9)
	assert.InDelta(t, 1725.00, total, 1e-9)
}

func TestComputeTotalsEmpty(t *testing.T) {
	subtotal, tax, total := domain.ComputeTotals(nil)

	assert.Zero(t, subtotal)
	assert.Zero(t, tax)
	assert.Zero(t, total)
}

func TestComputeTotalsRoundsPerDocument(t *testing.T) {
	// Tax applies to the rounded subtotal, not per line.
	items := []domain.InvoiceItem{
		{Quantity: 3, UnitPrice: 33.333},
		{Quantity: 1, UnitPrice: 0.005},
	}

	subtotal, tax, total := domain.ComputeTotals(items)

	assert.InDelta(t, 100.00, subtotal, 1e-9)
	assert.InDelta(t, 15.00, tax, 1e-9)
	assert.InDelta(t, 115.00, total, 1e-9)
}

func TestIsSettled(t *testing.T) {
	tests := []struct {
		name       string
		paidToDate float64
		total      float64
		expected   bool
	}{
		{name: "exact payment settles", paidToDate: 1725.00, total: 1725.00, expected: true},
		{name: "overpayment settles", paidToDate: 1800.00, total: 1725.00, expected: true},
		{name: "within tolerance settles", paidToDate: 1724.99, total: 1725.00, expected: true},
		{name: "beyond tolerance does not settle", paidToDate: 1724.98, total: 1725.00, expected: false},
		{name: "partial payment does not settle", paidToDate: 500.00, total: 1725.00, expected: false},
		{name: "zero total is settled", paidToDate: 0, total: 0, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, domain.IsSettled(tc.paidToDate, tc.total))
		})
	}
}
