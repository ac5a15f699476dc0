package model

import (
	"fmt"
	"slices"
	"strings"
)

// LogicalOperator combines the children of a compound.
type LogicalOperator string

const (
	And LogicalOperator = "And"
	Or  LogicalOperator = "Or"
)

// ParseLogicalOperator reads "and"/"or" in any letter case.
func ParseLogicalOperator(s string) (LogicalOperator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and":
		return And, nil
	case "or":
		return Or, nil
	}
	return "", fmt.Errorf("predicate: unknown logical operator %q", s)
}

// Compound applies LogicalOperator across all its children. Atomic and
// compound children are kept in separate lists; Children lists atomics
// first, then compounds, each in insertion order.
type Compound[T any] struct {
	node[T]

	LogicalOperator LogicalOperator

	atomics   []*Atomic[T]
	compounds []*Compound[T]
}

func (*Compound[T]) unitNode() {}

// NewRoot creates an empty AND root with UUIDv7 IDs.
func NewRoot[T any]() *Compound[T] {
	return NewRootWithIDs[T](UUIDv7Generator{})
}

// NewRootWithIDs creates an empty AND root. Nodes added under it draw
// their IDs from ids.
func NewRootWithIDs[T any](ids IDGenerator) *Compound[T] {
	return NewCompound[T](ids, And)
}

// NewCompound creates a detached compound.
func NewCompound[T any](ids IDGenerator, op LogicalOperator) *Compound[T] {
	return &Compound[T]{node: newNode[T](ids), LogicalOperator: op}
}

// AddAtomicChild appends a new empty leaf to parent.
func AddAtomicChild[T any](parent *Compound[T]) *Atomic[T] { return parent.AddAtomic() }

// AddCompoundChild appends a new empty AND group to parent.
func AddCompoundChild[T any](parent *Compound[T]) *Compound[T] { return parent.AddCompound(And) }

// AddAtomic appends a new empty leaf.
func (c *Compound[T]) AddAtomic() *Atomic[T] {
	a := NewAtomic[T](c.generator())
	a.parent = c
	c.atomics = append(c.atomics, a)
	return a
}

// AddCompound appends a new empty group combining with op.
func (c *Compound[T]) AddCompound(op LogicalOperator) *Compound[T] {
	g := NewCompound[T](c.generator(), op)
	g.parent = c
	c.compounds = append(c.compounds, g)
	return g
}

// AddPredicate appends u to the list matching its variant, detaching it
// from any previous parent first.
func (c *Compound[T]) AddPredicate(u Unit[T]) error {
	switch v := u.(type) {
	case *Atomic[T]:
		if v == nil {
			break
		}
		detach(v)
		v.parent = c
		c.atomics = append(c.atomics, v)
		return nil
	case *Compound[T]:
		if v == nil {
			break
		}
		for p := c; p != nil; p = p.parent {
			if p == v {
				return ErrCycle
			}
		}
		detach(v)
		v.parent = c
		c.compounds = append(c.compounds, v)
		return nil
	}
	return &UnsupportedVariantError{Op: "add", Variant: fmt.Sprintf("%T", u)}
}

// RemovePredicate removes u from this compound's children. It reports
// false when u is not a direct child.
func (c *Compound[T]) RemovePredicate(u Unit[T]) (bool, error) {
	switch v := u.(type) {
	case *Atomic[T]:
		if v == nil {
			break
		}
		i := slices.Index(c.atomics, v)
		if i < 0 {
			return false, nil
		}
		c.atomics = slices.Delete(c.atomics, i, i+1)
		v.parent = nil
		return true, nil
	case *Compound[T]:
		if v == nil {
			break
		}
		i := slices.Index(c.compounds, v)
		if i < 0 {
			return false, nil
		}
		c.compounds = slices.Delete(c.compounds, i, i+1)
		v.parent = nil
		return true, nil
	}
	return false, &UnsupportedVariantError{Op: "remove", Variant: fmt.Sprintf("%T", u)}
}

// Remove detaches the compound from its parent. On the root it removes
// every child instead.
func (c *Compound[T]) Remove() bool {
	if c.parent != nil {
		ok, _ := c.parent.RemovePredicate(c)
		return ok
	}
	c.Clear()
	return true
}

// Clear removes every child.
func (c *Compound[T]) Clear() {
	for _, a := range c.atomics {
		a.parent = nil
	}
	for _, g := range c.compounds {
		g.parent = nil
	}
	c.atomics, c.compounds = nil, nil
}

// Atomics returns the leaf children in insertion order.
func (c *Compound[T]) Atomics() []*Atomic[T] { return slices.Clone(c.atomics) }

// Compounds returns the group children in insertion order.
func (c *Compound[T]) Compounds() []*Compound[T] { return slices.Clone(c.compounds) }

// Children returns atomics then compounds.
func (c *Compound[T]) Children() []Unit[T] {
	out := make([]Unit[T], 0, len(c.atomics)+len(c.compounds))
	for _, a := range c.atomics {
		out = append(out, a)
	}
	for _, g := range c.compounds {
		out = append(out, g)
	}
	return out
}

// Len is the number of direct children.
func (c *Compound[T]) Len() int { return len(c.atomics) + len(c.compounds) }

func detach[T any](u Unit[T]) {
	if p := u.Parent(); p != nil {
		_, _ = p.RemovePredicate(u)
	}
}
