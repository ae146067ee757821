package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for the reconciliation pipeline. Validation errors are
// surfaced before any transaction is attempted; transactional errors abort
// the whole atomic step with no partial writes.
var (
	ErrEmptyScope          = errors.New("resolved scope is empty")
	ErrNoMatch             = errors.New("no search term matched any material")
	ErrFullyBatched        = errors.New("all scope materials are already batched")
	ErrAlreadyPosted       = errors.New("item is already posted")
	ErrNegativeCount       = errors.New("counted quantity cannot be negative")
	ErrZeroAmount          = errors.New("allocation amount must be greater than zero")
	ErrRuleNotFound        = errors.New("posting rule not found or inactive")
	ErrMissingCostCenter   = errors.New("posting rule requires department and section")
	ErrAllocationImbalance = errors.New("allocation rows do not balance the settlement target")
	ErrConcurrencyConflict = errors.New("record changed concurrently, retries exhausted")
	ErrLookupIncomplete    = errors.New("bulk lookup did not resolve all requested keys")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionCompleted    = errors.New("session is already completed")
	ErrSessionIncomplete   = errors.New("session still has unbatched or unsettled materials")
	ErrNoAllocationRows    = errors.New("at least one allocation row is required")
)

// AllocationImbalanceError reports the signed remainder so the caller can
// show "still short/over by X". Positive remainder means the rows fall
// short of the target.
type AllocationImbalanceError struct {
	Target    decimal.Decimal
	Allocated decimal.Decimal
	Remainder decimal.Decimal
}

func (e *AllocationImbalanceError) Error() string {
	return fmt.Sprintf("allocation imbalance: target %s, allocated %s, remainder %s",
		e.Target.StringFixed(2), e.Allocated.StringFixed(2), e.Remainder.StringFixed(2))
}

func (e *AllocationImbalanceError) Unwrap() error {
	return ErrAllocationImbalance
}

// LookupIncompleteError names the keys a chunked bulk fetch failed to
// resolve.
type LookupIncompleteError struct {
	Missing []uint
}

func (e *LookupIncompleteError) Error() string {
	return fmt.Sprintf("bulk lookup incomplete: %d keys unresolved %v", len(e.Missing), e.Missing)
}

func (e *LookupIncompleteError) Unwrap() error {
	return ErrLookupIncomplete
}

// IsClientError reports whether the error is caller-correctable input as
// opposed to an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyScope) ||
		errors.Is(err, ErrNoMatch) ||
		errors.Is(err, ErrFullyBatched) ||
		errors.Is(err, ErrAlreadyPosted) ||
		errors.Is(err, ErrNegativeCount) ||
		errors.Is(err, ErrZeroAmount) ||
		errors.Is(err, ErrRuleNotFound) ||
		errors.Is(err, ErrMissingCostCenter) ||
		errors.Is(err, ErrAllocationImbalance) ||
		errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrSessionIncomplete) ||
		errors.Is(err, ErrNoAllocationRows)
}
