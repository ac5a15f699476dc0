package model

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when a compound would become its own descendant.
var ErrCycle = errors.New("predicate: compound cannot contain itself or an ancestor")

// UnsupportedVariantError is returned when AddPredicate or RemovePredicate
// receives a Unit that is neither *Atomic[T] nor *Compound[T].
type UnsupportedVariantError struct {
	Op      string // "add" or "remove"
	Variant string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("predicate: cannot %s unit of type %s", e.Op, e.Variant)
}

// IsUnsupportedVariant reports whether err is an *UnsupportedVariantError.
func IsUnsupportedVariant(err error) bool {
	var uv *UnsupportedVariantError
	return errors.As(err, &uv)
}
