package billing

import (
	"github.com/dinepos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// TaxMode says whether item prices already contain tax.
type TaxMode string

const (
	TaxExclusive TaxMode = enum.TaxModeExclusive
	TaxInclusive TaxMode = enum.TaxModeInclusive
)

// ParseTaxMode maps a stored mode to a TaxMode. Unknown values are exclusive.
func ParseTaxMode(s string) TaxMode {
	if s == enum.TaxModeInclusive {
		return TaxInclusive
	}
	return TaxExclusive
}

var hundred = decimal.NewFromInt(100)

// LineItem is one priced quantity fed into the tax calculation.
type LineItem struct {
	Price decimal.Decimal
	Qty   int64
}

// TaxRates holds component percentages, e.g. 2.5 for 2.5%.
type TaxRates struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	CESS decimal.Decimal `json:"cess"`
}

// Combined is the sum of all component percentages.
func (r TaxRates) Combined() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST).Add(r.CESS)
}

// TaxBreakdown is the result of ComputeTax. Every amount is rounded to 4
// decimal places; display code rounds to 2.
type TaxBreakdown struct {
	LineTotal  decimal.Decimal `json:"line_total"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
	CESSAmount decimal.Decimal `json:"cess_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// TaxTotal is the sum of the component amounts.
func (b TaxBreakdown) TaxTotal() decimal.Decimal {
	return b.CGSTAmount.Add(b.SGSTAmount).Add(b.IGSTAmount).Add(b.CESSAmount)
}

// ComputeTax splits a set of line items into taxable subtotal and tax
// components.
//
// In exclusive mode tax is added on top of the line total. In inclusive mode
// the line total already contains tax, so the subtotal is backed out as
// lineTotal / (1 + combined/100) and the components are computed off that
// subtotal. The subtotal is rounded to 4 places before the components are
// derived from it, and each component is rounded to 4 places before summing.
func ComputeTax(items []LineItem, rates TaxRates, mode TaxMode) TaxBreakdown {
	lineTotal := decimal.Zero
	for _, it := range items {
		lineTotal = lineTotal.Add(it.Price.Mul(decimal.NewFromInt(it.Qty)))
	}

	combined := rates.Combined()
	subtotal := lineTotal
	if mode == TaxInclusive && !combined.IsZero() {
		subtotal = lineTotal.Div(decimal.NewFromInt(1).Add(combined.Div(hundred)))
	}
	subtotal = round4(subtotal)

	b := TaxBreakdown{
		LineTotal:  lineTotal,
		Subtotal:   subtotal,
		CGSTAmount: component(subtotal, rates.CGST),
		SGSTAmount: component(subtotal, rates.SGST),
		IGSTAmount: component(subtotal, rates.IGST),
		CESSAmount: component(subtotal, rates.CESS),
	}
	b.GrandTotal = round4(subtotal.Add(b.TaxTotal()))
	return b
}

func component(subtotal, percent decimal.Decimal) decimal.Decimal {
	return round4(subtotal.Mul(percent).Div(hundred))
}

func round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// RoundMoney rounds a final amount to 2 decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
