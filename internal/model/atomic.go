package model

import (
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/predicate/internal/classify"
	"github.com/roach88/predicate/internal/memberpath"
	"github.com/roach88/predicate/internal/operator"
)

// Atomic is a single comparison: Member Operator Value.
//
// A leaf constrains records only once member and operator are set and,
// unless the operator tests nullity, a value (or multi-select tokens)
// is present. An incomplete leaf is skipped by the generator.
type Atomic[T any] struct {
	node[T]

	member string
	path   *memberpath.Path
	info   classify.Info

	op    string
	value any
	multi []string
}

func (*Atomic[T]) unitNode() {}

// NewAtomic creates a detached leaf.
func NewAtomic[T any](ids IDGenerator) *Atomic[T] {
	return &Atomic[T]{node: newNode[T](ids)}
}

// Member returns the dotted member path, or "".
func (a *Atomic[T]) Member() string { return a.member }

// SetMember resolves path against T and makes it the leaf's member.
// Choosing a different member clears the operator, value and multi-select
// tokens, since they were chosen for the old member's type. An empty path
// clears the member. On error the leaf is unchanged.
func (a *Atomic[T]) SetMember(path string) (classify.Info, error) {
	path = strings.TrimSpace(path)
	if path == a.member {
		return a.info, nil
	}
	if path == "" {
		a.member, a.path, a.info = "", nil, classify.Info{}
		a.clearOperands()
		a.op = ""
		return a.info, nil
	}

	p, err := memberpath.For[T](path)
	if err != nil {
		return a.info, err
	}
	a.member = path
	a.path = p
	a.info = classify.Of(p.Type())
	a.op = ""
	a.clearOperands()
	return a.info, nil
}

// MemberType is the static type of the member, nil when unset.
func (a *Atomic[T]) MemberType() reflect.Type { return a.info.Type }

// Field is the classification of the member.
func (a *Atomic[T]) Field() classify.Info { return a.info }

// Accessor is the resolved member path, nil when unset.
func (a *Atomic[T]) Accessor() *memberpath.Path { return a.path }

// Operator returns the operator token as set.
func (a *Atomic[T]) Operator() string { return a.op }

// SetOperator sets the operator token. When the operand shape changes
// (scalar, list or none) the value and multi-select tokens are cleared.
func (a *Atomic[T]) SetOperator(op string) {
	if a.op != "" && operator.ArityOf(a.op) != operator.ArityOf(op) {
		a.clearOperands()
	}
	a.op = op
}

// Value returns the comparison operand.
func (a *Atomic[T]) Value() any { return a.value }

// SetValue sets the comparison operand. It is converted to the member's
// type at compile time.
func (a *Atomic[T]) SetValue(v any) { a.value = v }

// MultiSelectValues returns a copy of the candidate tokens for list operators.
func (a *Atomic[T]) MultiSelectValues() []string { return slices.Clone(a.multi) }

// SetMultiSelectValues replaces the candidate tokens for list operators.
func (a *Atomic[T]) SetMultiSelectValues(values []string) { a.multi = slices.Clone(values) }

// IsMultiSelect reports whether the operator is a set-membership operator.
func (a *Atomic[T]) IsMultiSelect() bool { return operator.IsList(a.op) }

// Configure sets member, operator and value in one step.
func (a *Atomic[T]) Configure(member, op string, value any) error {
	if _, err := a.SetMember(member); err != nil {
		return err
	}
	a.SetOperator(op)
	a.SetValue(value)
	return nil
}

// Complete reports whether the leaf constrains anything.
func (a *Atomic[T]) Complete() bool {
	if a.path == nil || strings.TrimSpace(a.op) == "" {
		return false
	}
	if !operator.RequiresValue(a.info, a.op) {
		return true
	}
	if operator.IsList(a.op) {
		return len(a.multi) > 0 || a.value != nil
	}
	return a.value != nil
}

// Remove detaches the leaf from its parent.
func (a *Atomic[T]) Remove() bool {
	if a.parent == nil {
		return false
	}
	ok, _ := a.parent.RemovePredicate(a)
	return ok
}

func (a *Atomic[T]) clearOperands() {
	a.value = nil
	a.multi = nil
}
