// Package model is the predicate tree: atomic comparisons grouped under
// AND/OR compounds, generic over the record type T they filter.
//
// Unit is a sealed interface - only *Atomic[T] and *Compound[T] implement
// it, and consumers switch over exactly those two variants.
//
// The tree is single-owner. A node has at most one parent, AddPredicate
// detaches a node from its previous parent, and a compound can never
// contain itself. Nothing in this package is safe for concurrent mutation.
package model

import (
	"github.com/google/uuid"
)

// Unit is a node of the predicate tree.
type Unit[T any] interface {
	// ID is assigned at construction and stable for the node's lifetime.
	ID() uuid.UUID

	// SetID replaces the ID. Used when restoring a serialized tree.
	SetID(uuid.UUID)

	// Parent is the compound that contains this node, nil for the root.
	Parent() *Compound[T]

	// Remove detaches the node from its parent. A parentless compound
	// clears its own children instead.
	Remove() bool

	unitNode() // Marker method - seals interface to this package
}

type node[T any] struct {
	id     uuid.UUID
	parent *Compound[T]
	ids    IDGenerator
}

func newNode[T any](ids IDGenerator) node[T] {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return node[T]{id: ids.NewID(), ids: ids}
}

// ID returns the node's identifier.
func (n *node[T]) ID() uuid.UUID { return n.id }

// SetID replaces the node's identifier.
func (n *node[T]) SetID(id uuid.UUID) { n.id = id }

// Parent returns the containing compound or nil.
func (n *node[T]) Parent() *Compound[T] { return n.parent }

func (n *node[T]) generator() IDGenerator {
	if n.ids == nil {
		return UUIDv7Generator{}
	}
	return n.ids
}

// Walk visits u and every descendant depth-first, compounds listing their
// atomics before their nested compounds. Returning false stops descent
// below the current node.
func Walk[T any](u Unit[T], fn func(u Unit[T], depth int) bool) {
	walk(u, 0, fn)
}

func walk[T any](u Unit[T], depth int, fn func(Unit[T], int) bool) {
	if u == nil || !fn(u, depth) {
		return
	}
	if c, ok := u.(*Compound[T]); ok {
		for _, child := range c.Children() {
			walk(child, depth+1, fn)
		}
	}
}

// Find returns the unit with the given ID under (and including) root.
func Find[T any](root Unit[T], id uuid.UUID) Unit[T] {
	var found Unit[T]
	Walk(root, func(u Unit[T], _ int) bool {
		if found != nil {
			return false
		}
		if u.ID() == id {
			found = u
			return false
		}
		return true
	})
	return found
}
