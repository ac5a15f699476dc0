// Package expr is the expression form produced by the generator: a small,
// sealed tree of nodes over a single record parameter.
//
// The tree can be inspected (String, Walk), interpreted directly (Eval) or
// compiled once into a closure tree (Lambda.Compile). Both evaluation paths
// share the same value semantics:
//
//   - A nil pointer anywhere on a field path reads as null.
//   - == with null is true only when both sides are null; != is its negation.
//   - Ordered comparisons involving null, or values of unrelated kinds, are false.
//   - && and || short-circuit left to right.
//
// Expr is a sealed interface: only types in this package implement it, so
// evaluators can switch exhaustively over the node set.
package expr

import (
	"reflect"
)

// Expr is a node in a boolean expression tree.
type Expr interface {
	// Type is the static type the node evaluates to.
	Type() reflect.Type

	// String renders the node in a compact, deterministic syntax.
	String() string

	exprNode() // Marker method - seals interface to this package
}

var (
	boolType   = reflect.TypeOf(false)
	stringType = reflect.TypeOf("")
)

// Parameter is the single lambda parameter (the record being tested).
type Parameter struct {
	Name string
	typ  reflect.Type
}

func (*Parameter) exprNode() {}

// Type returns the record type.
func (p *Parameter) Type() reflect.Type { return p.typ }

// Param creates the parameter node for records of type t.
func Param(name string, t reflect.Type) *Parameter {
	return &Parameter{Name: name, typ: t}
}

// Field reads one struct field off its operand. Pointer operands are
// dereferenced; a nil pointer yields null.
type Field struct {
	Operand Expr
	Name    string
	Index   []int // reflect index sequence, see reflect.Value.FieldByIndex
	typ     reflect.Type
}

func (*Field) exprNode() {}

// Type returns the declared type of the field.
func (f *Field) Type() reflect.Type { return f.typ }

// FieldOf creates a field access for sf on operand.
func FieldOf(operand Expr, sf reflect.StructField) *Field {
	return &Field{
		Operand: operand,
		Name:    sf.Name,
		Index:   sf.Index,
		typ:     sf.Type,
	}
}

// Constant is a literal value. A nil Value is null.
type Constant struct {
	Value any
	typ   reflect.Type
}

func (*Constant) exprNode() {}

// Type returns the type the constant was created with.
func (c *Constant) Type() reflect.Type { return c.typ }

// Const creates a constant typed as its dynamic value.
func Const(v any) *Constant {
	return &Constant{Value: v, typ: reflect.TypeOf(v)}
}

// Null creates a null constant of type t.
func Null(t reflect.Type) *Constant {
	return &Constant{typ: t}
}

// True is the literal used when a tree or leaf places no constraint.
func True() *Constant { return Const(true) }

// Op identifies a binary or unary operator.
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpAndAlso
	OpOrElse
	OpNot
)

var opSymbols = map[Op]string{
	OpEqual:              "==",
	OpNotEqual:           "!=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpAndAlso:            "&&",
	OpOrElse:             "||",
	OpNot:                "!",
}

// String returns the operator symbol.
func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return "?"
}

// Binary is a comparison or a logical combination of two operands.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Type is always bool.
func (*Binary) Type() reflect.Type { return boolType }

func binary(op Op, l, r Expr) *Binary { return &Binary{Op: op, Left: l, Right: r} }

// Equal builds l == r.
func Equal(l, r Expr) *Binary { return binary(OpEqual, l, r) }

// NotEqual builds l != r.
func NotEqual(l, r Expr) *Binary { return binary(OpNotEqual, l, r) }

// GreaterThan builds l > r.
func GreaterThan(l, r Expr) *Binary { return binary(OpGreaterThan, l, r) }

// GreaterThanOrEqual builds l >= r.
func GreaterThanOrEqual(l, r Expr) *Binary { return binary(OpGreaterThanOrEqual, l, r) }

// LessThan builds l < r.
func LessThan(l, r Expr) *Binary { return binary(OpLessThan, l, r) }

// LessThanOrEqual builds l <= r.
func LessThanOrEqual(l, r Expr) *Binary { return binary(OpLessThanOrEqual, l, r) }

// AndAlso builds l && r.
func AndAlso(l, r Expr) *Binary { return binary(OpAndAlso, l, r) }

// OrElse builds l || r.
func OrElse(l, r Expr) *Binary { return binary(OpOrElse, l, r) }

// IsNull builds e == null.
func IsNull(e Expr) *Binary { return Equal(e, Null(e.Type())) }

// IsNotNull builds e != null.
func IsNotNull(e Expr) *Binary { return NotEqual(e, Null(e.Type())) }

// Unary negates a boolean operand.
type Unary struct {
	Op      Op
	Operand Expr
}

func (*Unary) exprNode() {}

// Type is always bool.
func (*Unary) Type() reflect.Type { return boolType }

// Not builds !e.
func Not(e Expr) *Unary { return &Unary{Op: OpNot, Operand: e} }

// Method names a string method callable from an expression.
type Method string

const (
	MethodContains   Method = "Contains"
	MethodStartsWith Method = "StartsWith"
	MethodEndsWith   Method = "EndsWith"
	MethodTrim       Method = "Trim"
	MethodFold       Method = "Fold" // Unicode case folding
)

// Call invokes a string method on Receiver. A null receiver makes the
// predicate methods false and the string-valued methods null.
type Call struct {
	Method   Method
	Receiver Expr
	Args     []Expr
}

func (*Call) exprNode() {}

// Type is string for Trim and Fold, bool otherwise.
func (c *Call) Type() reflect.Type {
	switch c.Method {
	case MethodTrim, MethodFold:
		return stringType
	default:
		return boolType
	}
}

// Invoke creates a method call node.
func Invoke(m Method, receiver Expr, args ...Expr) *Call {
	return &Call{Method: m, Receiver: receiver, Args: args}
}

// Membership tests whether Operand equals any value in Set.
type Membership struct {
	Operand Expr
	Set     []any
}

func (*Membership) exprNode() {}

// Type is always bool.
func (*Membership) Type() reflect.Type { return boolType }

// In builds a membership test of operand against values. The values are
// stored in their scalar form (see Scalar).
func In(operand Expr, values []any) *Membership {
	set := make([]any, len(values))
	for i, v := range values {
		set[i] = Scalar(reflect.ValueOf(v))
	}
	return &Membership{Operand: operand, Set: set}
}
