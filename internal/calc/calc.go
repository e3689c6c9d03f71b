// Package calc implements the invoice arithmetic: line amounts, subtotal, tax
// and grand total. Everything here is a pure function of its inputs.
package calc

import (
	"github.com/shopspring/decimal"

	"invoiceapp/internal/model"
)

// Totals holds the three derived amounts of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ItemAmount computes quantity*rate - discount, clamped at zero. The discount
// is an absolute value per line, not a percentage.
func ItemAmount(quantity, unitRate, discount decimal.Decimal) decimal.Decimal {
	amount := quantity.Mul(unitRate).Sub(discount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// InvoiceTotals sums the (unrounded) line amounts, then derives the tax amount
// and grand total. Rounding happens only here, half-up to 2 places; line
// amounts are summed first and never rounded individually.
func InvoiceTotals(items []model.LineItem, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(ItemAmount(it.Quantity, it.UnitRate, it.Discount))
	}

	taxAmount := subtotal.Mul(taxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(taxAmount).Round(2)

	return Totals{Subtotal: subtotal, TaxAmount: taxAmount, Total: total}
}
