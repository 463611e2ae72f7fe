package billing

import (
	"fmt"

	"github.com/dinepos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Discount is an order-level discount, either a percentage of the gross or a
// fixed amount.
type Discount struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Validate checks type and range.
func (d Discount) Validate() error {
	switch d.Type {
	case enum.DiscountTypePercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: discount percent must be between 0 and 100", ErrValidation)
		}
	case enum.DiscountTypeFixed:
		if d.Value.IsNegative() {
			return fmt.Errorf("%w: discount amount cannot be negative", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: discount type must be %s or %s", ErrValidation, enum.DiscountTypePercentage, enum.DiscountTypeFixed)
	}
	return nil
}

// AmountOn returns the discount for the given gross, never more than gross.
func (d Discount) AmountOn(gross decimal.Decimal) decimal.Decimal {
	var amt decimal.Decimal
	if d.Type == enum.DiscountTypePercentage {
		amt = round4(gross.Mul(d.Value).Div(hundred))
	} else {
		amt = d.Value
	}
	if amt.GreaterThan(gross) {
		amt = gross
	}
	return amt
}

// Bill is the priced view of an order.
type Bill struct {
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            TaxBreakdown
	NetDue         decimal.Decimal
}

// ComputeBill prices the billable lines of an order: lines with a positive
// net quantity that did not come from a No-Charge KOT. The discount is taken
// off the gross before tax.
func ComputeBill(lines []Line, rates TaxRates, mode TaxMode, discount *Discount) Bill {
	gross := decimal.Zero
	for _, l := range lines {
		if l.IsNoCharge || l.NetQty() <= 0 {
			continue
		}
		gross = gross.Add(l.Amount())
	}

	discAmt := decimal.Zero
	if discount != nil {
		discAmt = discount.AmountOn(gross)
	}

	tax := ComputeTax([]LineItem{{Price: gross.Sub(discAmt), Qty: 1}}, rates, mode)
	return Bill{
		Gross:          gross,
		DiscountAmount: discAmt,
		Tax:            tax,
		NetDue:         RoundMoney(tax.GrandTotal),
	}
}
