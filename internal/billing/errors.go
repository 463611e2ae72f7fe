package billing

import "errors"

// Errors returned by the order engine. Callers wrap them with detail using
// fmt.Errorf("%w: ...") so errors.Is keeps working at the request boundary.
var (
	ErrValidation         = errors.New("invalid request")
	ErrInvalidState       = errors.New("operation not allowed for the current order state")
	ErrOverReversal       = errors.New("cannot reverse more than ordered quantity")
	ErrAmountMismatch     = errors.New("settlement total does not match amount due")
	ErrEmptyOrder         = errors.New("order has no items left to bill")
	ErrEmptyEntries       = errors.New("at least one payment entry is required")
	ErrAuthRequired       = errors.New("password re-verification is required")
	ErrInvalidCredentials = errors.New("password verification failed")
	ErrFinalized          = errors.New("order is settled and can no longer be changed")
	ErrNotFound           = errors.New("order not found")
)

// Kind is the stable, machine-readable name of an engine error.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidState       Kind = "INVALID_STATE"
	KindOverReversal       Kind = "OVER_REVERSAL"
	KindAmountMismatch     Kind = "AMOUNT_MISMATCH"
	KindEmptyOrder         Kind = "EMPTY_ORDER"
	KindEmptyEntries       Kind = "EMPTY_ENTRIES"
	KindAuthRequired       Kind = "AUTHENTICATION_REQUIRED"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindFinalized          Kind = "FINALIZED"
	KindNotFound           Kind = "NOT_FOUND"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{ErrInvalidState, KindInvalidState},
	{ErrOverReversal, KindOverReversal},
	{ErrAmountMismatch, KindAmountMismatch},
	{ErrEmptyOrder, KindEmptyOrder},
	{ErrEmptyEntries, KindEmptyEntries},
	{ErrAuthRequired, KindAuthRequired},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrFinalized, KindFinalized},
	{ErrNotFound, KindNotFound},
}

// KindOf reports the kind of a domain error. The second result is false for
// anything that is not an engine error (store failures, context errors).
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind, true
		}
	}
	return "", false
}
