// Package predicate compiles nested AND/OR filters over a record type T
// into boolean predicates.
//
// A filter is a tree of atomic comparisons (member path, operator, value)
// grouped under compounds. Build one with NewRoot, then compile it into an
// inspectable expression with CompileExpression or straight into a function
// with CompileFunc. Marshal and Unmarshal move a tree through the
// tagged-union interchange document.
//
//	root := predicate.NewRoot[Customer]()
//	age := root.AddAtomic()
//	if err := age.Configure("Age", "greater-than", 25); err != nil { ... }
//	match, err := predicate.CompileFunc(root, predicate.Options{})
package predicate

import (
	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/expr"
	"github.com/roach88/predicate/internal/generator"
	"github.com/roach88/predicate/internal/model"
)

type (
	// Unit is a node of a filter tree: *Atomic[T] or *Compound[T].
	Unit[T any] = model.Unit[T]

	// Atomic is a single comparison against a member of T.
	Atomic[T any] = model.Atomic[T]

	// Compound groups child units under And or Or.
	Compound[T any] = model.Compound[T]

	// Lambda is a compiled filter. Eval interprets the expression tree,
	// Compile returns a closure, String prints it.
	Lambda[T any] = expr.Lambda[T]

	LogicalOperator = model.LogicalOperator
	IDGenerator     = model.IDGenerator
	Options         = generator.Options
	Mode            = generator.Mode
	CaseSensitivity = generator.CaseSensitivity
)

const (
	And = model.And
	Or  = model.Or

	FailOpen = generator.FailOpen
	Strict   = generator.Strict

	CaseSensitive   = generator.CaseSensitive
	CaseInsensitive = generator.CaseInsensitive
)

// NewRoot creates an empty And root with UUIDv7 node IDs.
func NewRoot[T any]() *Compound[T] { return model.NewRoot[T]() }

// NewRootWithIDs creates an empty And root whose nodes take IDs from ids.
func NewRootWithIDs[T any](ids IDGenerator) *Compound[T] { return model.NewRootWithIDs[T](ids) }

// CompileExpression compiles root into an expression over T.
func CompileExpression[T any](root Unit[T], opts Options) (*Lambda[T], error) {
	return generator.New[T](opts).CompileExpression(root)
}

// CompileFunc compiles root into a function over T.
func CompileFunc[T any](root Unit[T], opts Options) (func(T) bool, error) {
	return generator.New[T](opts).CompileFunc(root)
}

// Marshal writes u as an indented JSON interchange document.
func Marshal[T any](u Unit[T]) ([]byte, error) { return codec.MarshalIndentJSON[T](u) }

// MarshalYAML writes u as a YAML interchange document.
func MarshalYAML[T any](u Unit[T]) ([]byte, error) { return codec.MarshalYAML[T](u) }

// Unmarshal reads a JSON interchange document and resolves its members
// against T.
func Unmarshal[T any](data []byte) (Unit[T], error) { return codec.UnmarshalJSON[T](data) }

// UnmarshalYAML reads a YAML interchange document.
func UnmarshalYAML[T any](data []byte) (Unit[T], error) { return codec.UnmarshalYAML[T](data) }

// Fingerprint returns a content hash of the filter u describes. Node IDs
// do not contribute.
func Fingerprint[T any](u Unit[T]) (string, error) { return codec.Fingerprint[T](u) }
