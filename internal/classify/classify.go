// Package classify buckets Go field types into the categories that drive
// operator selection and expression building.
//
// A pointer type is the nullable wrapper: *int classifies as Number with
// Nullable set. Only one level of pointer is unwrapped; **int is Other.
//
// Of is a pure, total function. Unrecognized types (and a nil type)
// classify as Other.
package classify

import (
	"encoding"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Category is the classified kind of a field.
type Category string

const (
	String   Category = "string"
	Number   Category = "number"
	Enum     Category = "enum"
	Boolean  Category = "boolean"
	DateTime Category = "datetime"
	Guid     Category = "guid"
	Other    Category = "other"
)

// Info is the classification of a single static type.
type Info struct {
	Category Category

	// Nullable is true when Type is a pointer wrapper around Elem.
	Nullable bool

	// Type is the type as declared on the field.
	Type reflect.Type

	// Elem is Type with the nullable wrapper removed.
	Elem reflect.Type
}

var (
	timeType            = reflect.TypeOf(time.Time{})
	uuidType            = reflect.TypeOf(uuid.UUID{})
	bigIntType          = reflect.TypeOf(big.Int{})
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Of classifies t.
func Of(t reflect.Type) Info {
	if t == nil {
		return Info{Category: Other}
	}

	info := Info{Type: t, Elem: t}
	if t.Kind() == reflect.Pointer {
		info.Nullable = true
		info.Elem = t.Elem()
	}
	info.Category = categoryOf(info.Elem)
	return info
}

// OfValue classifies the static type of v. A nil interface is Other.
func OfValue(v any) Info {
	return Of(reflect.TypeOf(v))
}

func categoryOf(t reflect.Type) Category {
	// Well-known struct types come first: uuid.UUID is an array and
	// time.Time/big.Int are structs, none of which a kind switch would catch.
	switch t {
	case timeType:
		return DateTime
	case uuidType:
		return Guid
	case bigIntType:
		return Number
	}

	if IsEnumType(t) {
		return Enum
	}

	switch t.Kind() {
	case reflect.String:
		return String
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Number
	default:
		return Other
	}
}

// IsEnumType reports whether t is a named integer or string type that
// prints with String and parses with UnmarshalText on its pointer.
// That pair is how Go code usually spells a closed set of named constants.
func IsEnumType(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Pointer || t.Name() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return false
	}
	return t.Implements(stringerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// IsString reports whether t is string or *string (named string types included).
func IsString(t reflect.Type) bool { return Of(t).Category == String }

// IsNumber reports whether t is a numeric type or a pointer to one.
func IsNumber(t reflect.Type) bool { return Of(t).Category == Number }

// IsEnum reports whether t is an enum type or a pointer to one.
func IsEnum(t reflect.Type) bool { return Of(t).Category == Enum }

// IsBoolean reports whether t is bool or *bool.
func IsBoolean(t reflect.Type) bool { return Of(t).Category == Boolean }

// IsDateTime reports whether t is time.Time or *time.Time.
func IsDateTime(t reflect.Type) bool { return Of(t).Category == DateTime }

// IsGuid reports whether t is uuid.UUID or *uuid.UUID.
func IsGuid(t reflect.Type) bool { return Of(t).Category == Guid }
