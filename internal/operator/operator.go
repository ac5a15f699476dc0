// Package operator defines the closed operator vocabulary for each field
// category.
//
// Operators travel as plain strings so documents written by older editors
// keep working. Canonical folds the accepted aliases ("=", "is after",
// "starts with") onto one canonical token per operation.
package operator

import (
	"slices"
	"strings"

	"github.com/roach88/predicate/internal/classify"
)

// Canonical operator tokens.
const (
	Contains           = "contains"
	NotContains        = "not-contains"
	Equals             = "equals"
	NotEquals          = "not-equals"
	StartsWith         = "starts-with"
	EndsWith           = "ends-with"
	Empty              = "empty"
	NotEmpty           = "not-empty"
	GreaterThan        = "greater-than"
	GreaterThanOrEqual = "greater-than-or-equal"
	LessThan           = "less-than"
	LessThanOrEqual    = "less-than-or-equal"
	Is                 = "is"
	IsNot              = "is-not"
	After              = "after"
	OnOrAfter          = "on-or-after"
	Before             = "before"
	OnOrBefore         = "on-or-before"
	IsOneOf            = "is one of"
	IsNotOneOf         = "is not one of"
)

var aliases = map[string]string{
	"=":                Equals,
	"==":               Equals,
	"equal":            Equals,
	"!=":               NotEquals,
	"not equals":       NotEquals,
	"not-equal":        NotEquals,
	"not equal":        NotEquals,
	">":                GreaterThan,
	"greater than":     GreaterThan,
	">=":               GreaterThanOrEqual,
	"greater-or-equal": GreaterThanOrEqual,
	"<":                LessThan,
	"less than":        LessThan,
	"<=":               LessThanOrEqual,
	"less-or-equal":    LessThanOrEqual,
	"not contains":     NotContains,
	"starts with":      StartsWith,
	"ends with":        EndsWith,
	"is empty":         Empty,
	"is not empty":     NotEmpty,
	"is not":           IsNot,
	"is after":         After,
	"is on or after":   OnOrAfter,
	"on or after":      OnOrAfter,
	"is before":        Before,
	"is on or before":  OnOrBefore,
	"on or before":     OnOrBefore,
	"is-one-of":        IsOneOf,
	"is-not-one-of":    IsNotOneOf,
}

// Canonical maps op, or any accepted alias of it, to its canonical token.
// Unknown tokens are returned trimmed and lower-cased.
func Canonical(op string) string {
	s := strings.ToLower(strings.TrimSpace(op))
	if c, ok := aliases[s]; ok {
		return c
	}
	return s
}

var (
	stringOps  = []string{Contains, NotContains, Equals, NotEquals, StartsWith, EndsWith, Empty, NotEmpty}
	numberOps  = []string{Equals, NotEquals, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, Empty, NotEmpty}
	enumOps    = []string{Is, IsNot}
	boolOps    = []string{Is}
	dateOps    = []string{Is, IsNot, After, OnOrAfter, Before, OnOrBefore}
	nullOps    = []string{Empty, NotEmpty}
	guidOps    = []string{Equals, NotEquals, Empty, NotEmpty}
	listOps    = []string{IsOneOf, IsNotOneOf}
	categories = map[classify.Category][]string{
		classify.String:   stringOps,
		classify.Number:   numberOps,
		classify.Enum:     enumOps,
		classify.Boolean:  boolOps,
		classify.DateTime: dateOps,
		classify.Guid:     guidOps,
	}
)

// For returns the operators legal on a field, in display order.
// Other has none.
func For(info classify.Info) []string {
	ops, ok := categories[info.Category]
	if !ok {
		return nil
	}
	out := slices.Clone(ops)
	if info.Category == classify.DateTime && info.Nullable {
		out = append(out, nullOps...)
	}
	return append(out, listOps...)
}

// Valid reports whether op (or an alias) is legal on the field.
func Valid(info classify.Info, op string) bool {
	return slices.Contains(For(info), Canonical(op))
}

// Arity is the shape of operand an operator takes.
type Arity int

const (
	Scalar  Arity = iota // one Value
	List                 // Value list or MultiSelectValues
	Nullary              // no operand
)

func (a Arity) String() string {
	switch a {
	case List:
		return "list"
	case Nullary:
		return "nullary"
	default:
		return "scalar"
	}
}

// ArityOf returns the operand shape of op.
func ArityOf(op string) Arity {
	switch Canonical(op) {
	case Empty, NotEmpty:
		return Nullary
	case IsOneOf, IsNotOneOf:
		return List
	default:
		return Scalar
	}
}

// IsList reports whether op is a set-membership operator.
func IsList(op string) bool { return ArityOf(op) == List }

// RequiresValue reports whether a leaf with this field and operator needs a
// Value before it constrains anything. A nullable enum compared with is or
// is-not accepts a missing Value as a test of the field's nullity.
func RequiresValue(info classify.Info, op string) bool {
	switch ArityOf(op) {
	case Nullary:
		return false
	case List:
		return true
	}
	if info.Category == classify.Enum && info.Nullable {
		c := Canonical(op)
		return c != Is && c != IsNot
	}
	return true
}
