package savings

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a goal id that does
// not exist in the ledger.
var ErrNotFound = errors.New("goal not found")

// ErrCorruptData is returned when a stored or imported payload fails schema
// validation. The whole payload is discarded, never partially applied.
var ErrCorruptData = errors.New("corrupt data")

// ValidationError reports an invalid field on a mutation. The ledger state is
// unchanged when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
