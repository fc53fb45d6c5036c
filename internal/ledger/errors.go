package ledger

import (
	"errors"
	"fmt"
)

// Not-found errors for records referenced by ledger operations. These are
// surfaced to the caller and never retried.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrSettlementNotFound  = errors.New("settlement not found")
)

// ValidationError reports a user-correctable input problem, such as split
// amounts that do not sum to the expense total. It is returned to the caller
// and never retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConsistencyError reports a violated ledger invariant, such as duplicate
// canonical entries for one user pair found outside the consolidator. It is
// logged and surfaced; the recommended remedy is running consolidation for
// the affected group.
type ConsistencyError struct {
	GroupID string
	Detail  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("ledger inconsistency in group %s: %s (run consolidation to repair)", e.GroupID, e.Detail)
}

// IsConsistency reports whether err is a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
