package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SettlementEntry is one payment instrument and the amount it covers.
type SettlementEntry struct {
	PaymentMode string
	Amount      decimal.Decimal
	Reference   string
}

// ValidateSettlement checks that entries cover exactly the amount due. The
// comparison is exact: due is already rounded to 2 places by ComputeBill.
// knownMode may be nil to accept any non-empty mode.
func ValidateSettlement(due decimal.Decimal, entries []SettlementEntry, knownMode func(string) bool) error {
	if len(entries) == 0 {
		return ErrEmptyEntries
	}

	sum := decimal.Zero
	for i, e := range entries {
		mode := strings.TrimSpace(e.PaymentMode)
		if mode == "" {
			return fmt.Errorf("%w: entries[%d]: payment_mode is required", ErrValidation, i)
		}
		if knownMode != nil && !knownMode(mode) {
			return fmt.Errorf("%w: entries[%d]: unknown payment_mode %q", ErrValidation, i, mode)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: entries[%d]: amount cannot be negative", ErrValidation, i)
		}
		sum = sum.Add(e.Amount)
	}

	if !sum.Equal(due) {
		return fmt.Errorf("%w: received %s, due %s", ErrAmountMismatch, sum.StringFixed(2), due.StringFixed(2))
	}
	return nil
}
