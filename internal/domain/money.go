package domain

import "math"

// RoundMoney rounds a currency amount half away from zero to two decimals.
// All stored totals go through this so recomputation is reproducible.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals derives subtotal, tax and total from line quantities and
// unit prices. Tax is applied to the rounded subtotal, not per line.
func ComputeTotals(items []InvoiceItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}
	subtotal = RoundMoney(subtotal)
	tax = RoundMoney(subtotal * TaxRate)
	total = RoundMoney(subtotal + tax)
	return subtotal, tax, total
}

// IsSettled reports whether paidToDate covers the total within the
// settlement tolerance.
func IsSettled(paidToDate, total float64) bool {
	return total-paidToDate <= SettlementTolerance
}
