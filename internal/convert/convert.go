// Package convert turns user-entered filter values into the native type of
// the member they are compared with.
//
// Values arrive as text from editors and documents, or as loosely typed
// JSON scalars (float64, bool). ToNative produces a value of the member's
// element type, or a *ConversionError.
package convert

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/predicate/internal/classify"
)

// ConversionError reports a value that cannot be read as the target type.
type ConversionError struct {
	Value  string
	Target reflect.Type
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %v: %v", e.Value, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// IsConversionError reports whether err wraps a *ConversionError.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

var (
	errFraction    = errors.New("value has a fractional part")
	errRange       = errors.New("value out of range")
	errUnsupported = errors.New("unsupported target type")

	bigIntType = reflect.TypeOf(big.Int{})
)

// TimeLayouts are tried in order by ParseTime.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToNative converts v to info.Elem. A nil v (or nil pointer) returns nil.
// Numbers that target big.Int are returned as *big.Int.
func ToNative(info classify.Info, v any) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem() == bigIntType {
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}
	if info.Elem != nil && rv.Type() == info.Elem {
		if info.Category == classify.DateTime {
			return rv.Interface().(time.Time).UTC(), nil
		}
		return rv.Interface(), nil
	}

	var text string
	switch rv.Kind() {
	case reflect.String:
		text = rv.String()
	case reflect.Float32, reflect.Float64:
		text = strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text = strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		text = strconv.FormatUint(rv.Uint(), 10)
	case reflect.Bool:
		text = strconv.FormatBool(rv.Bool())
	default:
		text = Format(rv.Interface())
	}
	return Parse(info, text)
}

// Parse reads text as info.Elem.
func Parse(info classify.Info, text string) (any, error) {
	var (
		out any
		err error
	)
	switch info.Category {
	case classify.String:
		out = reflect.ValueOf(text).Convert(info.Elem).Interface()
	case classify.Number:
		out, err = ParseNumber(info.Elem, text)
	case classify.Boolean:
		out, err = ParseBool(text)
		if err == nil {
			out = reflect.ValueOf(out).Convert(info.Elem).Interface()
		}
	case classify.DateTime:
		out, err = ParseTime(text)
	case classify.Guid:
		out, err = uuid.Parse(strings.TrimSpace(text))
	case classify.Enum:
		out, err = ParseEnum(info.Elem, text)
	default:
		err = errUnsupported
	}
	if err != nil {
		return nil, &ConversionError{Value: text, Target: info.Type, Err: err}
	}
	return out, nil
}

// ParseNumber reads text into the numeric type t. Integer targets accept
// exponent or decimal forms only when the value is integral and in range.
func ParseNumber(t reflect.Type, text string) (any, error) {
	s := strings.TrimSpace(text)
	if t == bigIntType {
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			f, _, err := big.ParseFloat(s, 10, 0, big.ToNearestEven)
			if err != nil {
				return nil, err
			}
			if !f.IsInt() {
				return nil, errFraction
			}
			b, _ = f.Int(nil)
		}
		return b, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			f, ferr := integral(s)
			if ferr != nil {
				return nil, ferr
			}
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, errRange
			}
			n = int64(f)
			if reflect.Zero(t).OverflowInt(n) {
				return nil, errRange
			}
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			f, ferr := integral(s)
			if ferr != nil {
				return nil, ferr
			}
			if f < 0 || f >= math.MaxUint64 {
				return nil, errRange
			}
			n = uint64(f)
			if reflect.Zero(t).OverflowUint(n) {
				return nil, errRange
			}
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	}
	return nil, errUnsupported
}

func integral(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errFraction
	}
	return f, nil
}

// ParseBool reads true/false in any letter case, plus 1/0.
func ParseBool(text string) (bool, error) {
	return strconv.ParseBool(strings.ToLower(strings.TrimSpace(text)))
}

// ParseTime reads text using TimeLayouts. Text without a zone is taken as
// UTC; the result is always in UTC.
func ParseTime(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	var firstErr error
	for _, layout := range TimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseEnum reads a constant name into the enum type t via its
// UnmarshalText method. Integer enums also accept the numeric value of a
// named constant.
func ParseEnum(t reflect.Type, text string) (any, error) {
	p := reflect.New(t)
	u, ok := p.Interface().(encoding.TextUnmarshaler)
	if !ok {
		return nil, errUnsupported
	}
	s := strings.TrimSpace(text)
	err := u.UnmarshalText([]byte(s))
	if err == nil {
		return p.Elem().Interface(), nil
	}
	if v, ok := enumByNumber(t, s); ok {
		return v, nil
	}
	return nil, err
}

// enumByNumber converts s to the integer enum t when the result is a named
// constant, i.e. its String form parses back to the same value.
func enumByNumber(t reflect.Type, s string) (any, bool) {
	n, err := ParseNumber(t, s)
	if err != nil {
		return nil, false
	}
	name, ok := n.(fmt.Stringer)
	if !ok {
		return nil, false
	}
	p := reflect.New(t)
	if p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(name.String())) != nil {
		return nil, false
	}
	if p.Elem().Interface() != n {
		return nil, false
	}
	return n, true
}

// SplitList splits a comma-separated list, trimming whitespace and
// dropping empty tokens.
func SplitList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// List converts each token to info.Elem.
func List(info classify.Info, tokens []string) ([]any, error) {
	out := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, err := Parse(info, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Format renders a native value as the text Parse accepts.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *big.Int:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return Format(rv.Elem().Interface())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits())
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}
