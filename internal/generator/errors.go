package generator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/predicate/internal/classify"
)

// UnsupportedOperatorError is returned in Strict mode for an operator the
// member's category does not define, or for a category with no operators.
type UnsupportedOperatorError struct {
	ID       uuid.UUID
	Member   string
	Operator string
	Category classify.Category
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("predicate %s: operator %q is not supported on %s member %q",
		e.ID, e.Operator, e.Category, e.Member)
}

// LeafError ties a compile failure to the atomic predicate that caused it.
type LeafError struct {
	ID     uuid.UUID
	Member string
	Err    error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("predicate %s (%s): %v", e.ID, e.Member, e.Err)
}

func (e *LeafError) Unwrap() error { return e.Err }

// IsUnsupportedOperator reports whether err wraps an *UnsupportedOperatorError.
func IsUnsupportedOperator(err error) bool {
	var uo *UnsupportedOperatorError
	return errors.As(err, &uo)
}
