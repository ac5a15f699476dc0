package expr

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/predicate/internal/classify"
)

// String returns the parameter name.
func (p *Parameter) String() string { return p.Name }

// String renders operand.Name.
func (f *Field) String() string { return f.Operand.String() + "." + f.Name }

// String renders the literal. Strings, times and GUIDs are quoted; enums
// print by name.
func (c *Constant) String() string { return FormatValue(c.Value) }

// String renders (left op right).
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// String renders !operand.
func (u *Unary) String() string { return u.Op.String() + u.Operand.String() }

// String renders receiver.Method(args).
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Receiver.String() + "." + string(c.Method) + "(" + strings.Join(args, ", ") + ")"
}

// String renders operand in [v1, v2].
func (m *Membership) String() string {
	items := make([]string, len(m.Set))
	for i, v := range m.Set {
		items[i] = FormatValue(v)
	}
	return m.Operand.String() + " in [" + strings.Join(items, ", ") + "]"
}

// FormatValue renders a literal the way constants print.
func FormatValue(v any) string {
	if v == nil {
		return "null"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		if _, ok := v.(*big.Int); !ok {
			return FormatValue(rv.Elem().Interface())
		}
	}
	if classify.IsEnumType(rv.Type()) {
		return v.(fmt.Stringer).String()
	}

	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case time.Time:
		return strconv.Quote(x.UTC().Format(time.RFC3339Nano))
	case uuid.UUID:
		return strconv.Quote(x.String())
	case *big.Int:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if rv.Kind() == reflect.String {
		return strconv.Quote(rv.String())
	}
	return fmt.Sprint(v)
}
