package billing

import (
	"fmt"

	"github.com/dinepos/api/internal/enum"
)

// Action is a mutating operation on an order.
type Action string

const (
	ActionAppendKOT     Action = "append_kot"
	ActionReverse       Action = "reverse"
	ActionMarkBilled    Action = "mark_billed"
	ActionApplyDiscount Action = "apply_discount"
	ActionSettle        Action = "settle"
	ActionReverseBill   Action = "reverse_bill"
)

// allowedActions lists the legal actions per stored state. Every mutation on
// a SETTLED order fails with ErrFinalized.
var allowedActions = map[string][]Action{
	enum.OrderStateOrdering: {ActionAppendKOT, ActionReverse, ActionMarkBilled, ActionApplyDiscount},
	enum.OrderStateBilled:   {ActionReverse, ActionApplyDiscount, ActionSettle, ActionReverseBill},
}

// CheckTransition validates that action may run on an order in state.
func CheckTransition(state string, action Action) error {
	switch state {
	case enum.OrderStateSettled:
		return ErrFinalized
	case enum.OrderStateReversed:
		if action == ActionMarkBilled {
			return fmt.Errorf("%w: every line was reversed", ErrEmptyOrder)
		}
		return fmt.Errorf("%w: order was fully reversed", ErrInvalidState)
	}
	for _, a := range allowedActions[state] {
		if a == action {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, transitionHint(state, action))
}

func transitionHint(state string, action Action) string {
	switch {
	case state == enum.OrderStateBilled && action == ActionAppendKOT:
		return "order is billed, reverse the bill before adding items"
	case state == enum.OrderStateBilled && action == ActionMarkBilled:
		return "order is already billed"
	case state == enum.OrderStateOrdering && action == ActionSettle:
		return "order must be billed before settlement"
	case state == enum.OrderStateOrdering && action == ActionReverseBill:
		return "order is not billed"
	}
	return fmt.Sprintf("cannot %s an order in state %s", action, state)
}

// RequiresReauth reports whether the action needs a fresh password proof.
func RequiresReauth(state string, action Action) bool {
	if state != enum.OrderStateBilled {
		return false
	}
	return action == ActionReverse || action == ActionReverseBill
}

// IsOpen reports whether an order in state still holds its table.
func IsOpen(state string) bool {
	return state == enum.OrderStateOrdering || state == enum.OrderStateBilled
}

// TableStatus projects the order state onto the table map.
func TableStatus(state string) string {
	switch state {
	case enum.OrderStateOrdering:
		return enum.TableStatusOccupied
	case enum.OrderStateBilled:
		return enum.TableStatusBilled
	}
	return enum.TableStatusFree
}
