package expr

import (
	"cmp"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/roach88/predicate/internal/classify"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	uuidType   = reflect.TypeOf(uuid.UUID{})
	bigIntType = reflect.TypeOf(big.Int{})

	trueValue  = reflect.ValueOf(true)
	falseValue = reflect.ValueOf(false)
)

// Eval interprets e against root. The zero reflect.Value is null.
func Eval(e Expr, root reflect.Value) reflect.Value {
	switch n := e.(type) {
	case *Parameter:
		return root
	case *Field:
		return readField(Eval(n.Operand, root), n.Index)
	case *Constant:
		return constValue(n)
	case *Binary:
		switch n.Op {
		case OpAndAlso:
			if !Truth(Eval(n.Left, root)) {
				return falseValue
			}
			return boolValue(Truth(Eval(n.Right, root)))
		case OpOrElse:
			if Truth(Eval(n.Left, root)) {
				return trueValue
			}
			return boolValue(Truth(Eval(n.Right, root)))
		default:
			return boolValue(compareOp(n.Op, Scalar(Eval(n.Left, root)), Scalar(Eval(n.Right, root))))
		}
	case *Unary:
		return boolValue(!Truth(Eval(n.Operand, root)))
	case *Call:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = Scalar(Eval(a, root))
		}
		return invoke(n.Method, Scalar(Eval(n.Receiver, root)), args)
	case *Membership:
		return boolValue(member(Scalar(Eval(n.Operand, root)), n.Set))
	default:
		return reflect.Value{}
	}
}

// Truth reports whether v holds boolean true. Null is false.
func Truth(v reflect.Value) bool {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.IsValid() && v.Kind() == reflect.Bool && v.Bool()
}

// Scalar reduces v to the comparable form used by the evaluators:
// nil for null, int64/uint64/float64 for numbers, string, bool,
// time.Time, uuid.UUID, *big.Int, or the enum's own named type.
func Scalar(v reflect.Value) any {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	switch v.Type() {
	case timeType:
		if v.CanInterface() {
			return v.Interface().(time.Time)
		}
		return nil
	case uuidType:
		if v.CanInterface() {
			return v.Interface().(uuid.UUID)
		}
		return nil
	case bigIntType:
		if v.CanAddr() && v.Addr().CanInterface() {
			return new(big.Int).Set(v.Addr().Interface().(*big.Int))
		}
		if v.CanInterface() {
			b := v.Interface().(big.Int)
			return new(big.Int).Set(&b)
		}
		return nil
	}

	if classify.IsEnumType(v.Type()) && v.CanInterface() {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	if v.CanInterface() {
		return v.Interface()
	}
	return nil
}

func readField(v reflect.Value, index []int) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	fv, err := v.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer on the way down
		return reflect.Value{}
	}
	return fv
}

func constValue(c *Constant) reflect.Value {
	if c.Value == nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(c.Value)
}

func boolValue(b bool) reflect.Value {
	if b {
		return trueValue
	}
	return falseValue
}

func compareOp(op Op, a, b any) bool {
	switch op {
	case OpEqual:
		return equal(a, b)
	case OpNotEqual:
		return !equal(a, b)
	}

	c, ok := compare(a, b)
	if !ok {
		return false
	}
	switch op {
	case OpGreaterThan:
		return c > 0
	case OpGreaterThanOrEqual:
		return c >= 0
	case OpLessThan:
		return c < 0
	case OpLessThanOrEqual:
		return c <= 0
	default:
		return false
	}
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// compare orders two scalars of compatible kinds. ok is false for null,
// for unordered kinds and for mismatched kinds.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case nil:
		return 0, false
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case uuid.UUID:
		y, ok := b.(uuid.UUID)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(x[:]), string(y[:])), true
	}
	return compareNumbers(a, b)
}

func compareNumbers(a, b any) (int, bool) {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y), true
		}
	case uint64:
		if y, ok := b.(uint64); ok {
			return cmp.Compare(x, y), true
		}
	case float64:
		if y, ok := b.(float64); ok {
			if math.IsNaN(x) || math.IsNaN(y) {
				return 0, false
			}
			return cmp.Compare(x, y), true
		}
	}

	fa, ok := bigFloat(a)
	if !ok {
		return 0, false
	}
	fb, ok := bigFloat(b)
	if !ok {
		return 0, false
	}
	return fa.Cmp(fb), true
}

func bigFloat(v any) (*big.Float, bool) {
	switch x := v.(type) {
	case int64:
		return new(big.Float).SetInt64(x), true
	case uint64:
		return new(big.Float).SetUint64(x), true
	case float64:
		if math.IsNaN(x) {
			return nil, false
		}
		return new(big.Float).SetFloat64(x), true
	case *big.Int:
		return new(big.Float).SetInt(x), true
	default:
		return nil, false
	}
}

func member(v any, set []any) bool {
	for _, s := range set {
		if equal(v, s) {
			return true
		}
	}
	return false
}

func invoke(m Method, recv any, args []any) reflect.Value {
	s, ok := recv.(string)
	switch m {
	case MethodTrim:
		if !ok {
			return reflect.Value{}
		}
		return reflect.ValueOf(strings.TrimSpace(s))
	case MethodFold:
		if !ok {
			return reflect.Value{}
		}
		// A Caser is not safe for concurrent use.
		return reflect.ValueOf(cases.Fold().String(s))
	}

	if !ok || len(args) != 1 {
		return falseValue
	}
	arg, ok := args[0].(string)
	if !ok {
		return falseValue
	}
	switch m {
	case MethodContains:
		return boolValue(strings.Contains(s, arg))
	case MethodStartsWith:
		return boolValue(strings.HasPrefix(s, arg))
	case MethodEndsWith:
		return boolValue(strings.HasSuffix(s, arg))
	default:
		return falseValue
	}
}
