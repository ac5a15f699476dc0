// Package generator compiles a predicate tree into a single boolean
// expression over the record type.
//
// Composition is depth-first. A compound visits its atomic children, then
// its compound children, each in insertion order, and folds the results
// with its logical operator. A child that contributes nothing is skipped,
// so an empty group is the identity of its parent's operator and an empty
// tree compiles to the literal true.
package generator

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/roach88/predicate/internal/expr"
	"github.com/roach88/predicate/internal/model"
)

// Mode selects what happens to an operator a member's category does not
// define.
type Mode int

const (
	// FailOpen compiles the leaf to the literal true.
	FailOpen Mode = iota

	// Strict fails compilation with *UnsupportedOperatorError.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "fail-open"
}

// CaseSensitivity selects how string operators compare text.
type CaseSensitivity int

const (
	CaseSensitive CaseSensitivity = iota
	CaseInsensitive
)

// Options configures a Generator. The zero value is fail-open,
// case-sensitive, logging to slog.Default().
type Options struct {
	Mode            Mode
	CaseSensitivity CaseSensitivity
	Logger          *slog.Logger

	// ParamName names the lambda parameter in printed expressions.
	// Defaults to "x".
	ParamName string
}

// Generator compiles trees over records of type T. It holds no per-tree
// state and may be reused.
type Generator[T any] struct {
	opts  Options
	log   *slog.Logger
	param *expr.Parameter
}

// New creates a generator.
func New[T any](opts Options) *Generator[T] {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	name := opts.ParamName
	if name == "" {
		name = "x"
	}
	return &Generator[T]{
		opts:  opts,
		log:   log,
		param: expr.Param(name, reflect.TypeFor[T]()),
	}
}

// CompileExpression compiles root into an inspectable lambda.
func (g *Generator[T]) CompileExpression(root model.Unit[T]) (*expr.Lambda[T], error) {
	body, err := g.Build(root)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = expr.True()
	}
	return expr.NewLambda[T](g.param, body), nil
}

// CompileFunc compiles root into a function. It agrees with the lambda
// from CompileExpression on every record.
func (g *Generator[T]) CompileFunc(root model.Unit[T]) (func(T) bool, error) {
	l, err := g.CompileExpression(root)
	if err != nil {
		return nil, err
	}
	return l.Compile(), nil
}

// Build returns the sub-expression for u, or nil when u contributes
// nothing.
func (g *Generator[T]) Build(u model.Unit[T]) (expr.Expr, error) {
	switch v := u.(type) {
	case *model.Compound[T]:
		if v != nil {
			return g.compound(v)
		}
	case *model.Atomic[T]:
		if v != nil {
			return g.atomic(v)
		}
	}
	return nil, &model.UnsupportedVariantError{Op: "compile", Variant: fmt.Sprintf("%T", u)}
}

func (g *Generator[T]) compound(c *model.Compound[T]) (expr.Expr, error) {
	combine := expr.AndAlso
	if c.LogicalOperator == model.Or {
		combine = expr.OrElse
	}

	var acc expr.Expr
	fold := func(child expr.Expr) {
		switch {
		case child == nil:
		case acc == nil:
			acc = child
		default:
			acc = combine(acc, child)
		}
	}

	for _, a := range c.Atomics() {
		e, err := g.atomic(a)
		if err != nil {
			return nil, err
		}
		fold(e)
	}
	for _, sub := range c.Compounds() {
		e, err := g.compound(sub)
		if err != nil {
			return nil, err
		}
		fold(e)
	}
	return acc, nil
}
