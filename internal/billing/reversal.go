package billing

import (
	"fmt"
	"strings"
)

// ReversalRequest asks to take qty off one order line.
type ReversalRequest struct {
	LineID int64
	Qty    int64
	Reason string
}

// ValidateReversal checks a whole reversal batch against the order and
// returns the total quantity to reverse per line. Requests for the same line
// draw on the same net quantity, so a batch either fits entirely or is
// rejected.
func ValidateReversal(o *Order, reqs []ReversalRequest) (map[int64]int64, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no lines to reverse", ErrValidation)
	}

	totals := make(map[int64]int64, len(reqs))
	for i, r := range reqs {
		if r.Qty <= 0 {
			return nil, fmt.Errorf("%w: lines[%d]: quantity must be > 0", ErrValidation, i)
		}
		if strings.TrimSpace(r.Reason) == "" {
			return nil, fmt.Errorf("%w: lines[%d]: reason is required", ErrValidation, i)
		}
		if _, ok := o.Line(r.LineID); !ok {
			return nil, fmt.Errorf("%w: lines[%d]: line %d does not belong to order %d", ErrValidation, i, r.LineID, o.ID)
		}
	}

	// Checked against the remaining quantity so the running total never overflows.
	for _, r := range reqs {
		l, _ := o.Line(r.LineID)
		left := l.NetQty() - totals[r.LineID]
		if r.Qty > left {
			return nil, fmt.Errorf("%w: %s has %d left, %d requested", ErrOverReversal, lineLabel(l), left, r.Qty)
		}
		totals[r.LineID] += r.Qty
	}
	return totals, nil
}

func lineLabel(l Line) string {
	if l.ItemName != "" {
		return l.ItemName
	}
	return fmt.Sprintf("line %d", l.ID)
}
