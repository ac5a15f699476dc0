package expr

import (
	"reflect"
)

// Lambda is a boolean predicate body over a single parameter of type T.
type Lambda[T any] struct {
	Param *Parameter
	Body  Expr
}

// NewLambda wraps body as a predicate over param.
func NewLambda[T any](param *Parameter, body Expr) *Lambda[T] {
	return &Lambda[T]{Param: param, Body: body}
}

// Eval interprets the body against item.
func (l *Lambda[T]) Eval(item T) bool {
	return Truth(Eval(l.Body, reflect.ValueOf(&item).Elem()))
}

// Compile turns the body into a closure tree. The result holds no mutable
// state and can be called from many goroutines.
func (l *Lambda[T]) Compile() func(T) bool {
	fn := compileNode(l.Body)
	return func(item T) bool {
		return Truth(fn(reflect.ValueOf(&item).Elem()))
	}
}

// String renders the lambda as "x => body".
func (l *Lambda[T]) String() string {
	return l.Param.Name + " => " + l.Body.String()
}

type evalFunc func(root reflect.Value) reflect.Value

func compileNode(e Expr) evalFunc {
	switch n := e.(type) {
	case *Parameter:
		return func(root reflect.Value) reflect.Value { return root }

	case *Field:
		operand := compileNode(n.Operand)
		index := n.Index
		return func(root reflect.Value) reflect.Value {
			return readField(operand(root), index)
		}

	case *Constant:
		v := constValue(n)
		return func(reflect.Value) reflect.Value { return v }

	case *Binary:
		left, right := compileNode(n.Left), compileNode(n.Right)
		switch n.Op {
		case OpAndAlso:
			return func(root reflect.Value) reflect.Value {
				return boolValue(Truth(left(root)) && Truth(right(root)))
			}
		case OpOrElse:
			return func(root reflect.Value) reflect.Value {
				return boolValue(Truth(left(root)) || Truth(right(root)))
			}
		default:
			op := n.Op
			return func(root reflect.Value) reflect.Value {
				return boolValue(compareOp(op, Scalar(left(root)), Scalar(right(root))))
			}
		}

	case *Unary:
		operand := compileNode(n.Operand)
		return func(root reflect.Value) reflect.Value {
			return boolValue(!Truth(operand(root)))
		}

	case *Call:
		recv := compileNode(n.Receiver)
		args := make([]evalFunc, len(n.Args))
		for i, a := range n.Args {
			args[i] = compileNode(a)
		}
		m := n.Method
		return func(root reflect.Value) reflect.Value {
			vals := make([]any, len(args))
			for i, a := range args {
				vals[i] = Scalar(a(root))
			}
			return invoke(m, Scalar(recv(root)), vals)
		}

	case *Membership:
		operand := compileNode(n.Operand)
		set := n.Set
		return func(root reflect.Value) reflect.Value {
			return boolValue(member(Scalar(operand(root)), set))
		}

	default:
		return func(reflect.Value) reflect.Value { return reflect.Value{} }
	}
}
