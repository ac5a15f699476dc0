package codec

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/predicate/internal/classify"
	"github.com/roach88/predicate/internal/model"
)

type atomicDoc struct {
	Type              string    `json:"$predicate-unit-type" yaml:"$predicate-unit-type"`
	ID                uuid.UUID `json:"Id" yaml:"Id"`
	Member            string    `json:"Member,omitempty" yaml:"Member,omitempty"`
	MemberType        string    `json:"MemberType,omitempty" yaml:"MemberType,omitempty"`
	Operator          string    `json:"Operator,omitempty" yaml:"Operator,omitempty"`
	Value             any       `json:"Value,omitempty" yaml:"Value,omitempty"`
	MultiSelectValues []string  `json:"MultiSelectValues,omitempty" yaml:"MultiSelectValues,omitempty"`
}

type compoundDoc struct {
	Type               string                `json:"$predicate-unit-type" yaml:"$predicate-unit-type"`
	ID                 uuid.UUID             `json:"Id" yaml:"Id"`
	LogicalOperator    model.LogicalOperator `json:"LogicalOperator" yaml:"LogicalOperator"`
	AtomicPredicates   []atomicDoc           `json:"AtomicPredicates" yaml:"AtomicPredicates"`
	CompoundPredicates []compoundDoc         `json:"CompoundPredicates" yaml:"CompoundPredicates"`
}

// MarshalJSON writes u as a JSON document.
func MarshalJSON[T any](u model.Unit[T]) ([]byte, error) {
	doc, err := lower(u)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// MarshalIndentJSON is MarshalJSON with two-space indentation.
func MarshalIndentJSON[T any](u model.Unit[T]) ([]byte, error) {
	doc, err := lower(u)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML writes u as a YAML document with the same field names.
func MarshalYAML[T any](u model.Unit[T]) ([]byte, error) {
	doc, err := lower(u)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func lower[T any](u model.Unit[T]) (any, error) {
	switch v := u.(type) {
	case *model.Atomic[T]:
		if v != nil {
			return lowerAtomic(v)
		}
	case *model.Compound[T]:
		if v != nil {
			return lowerCompound(v)
		}
	}
	return nil, &model.UnsupportedVariantError{Op: "serialize", Variant: fmt.Sprintf("%T", u)}
}

func lowerAtomic[T any](a *model.Atomic[T]) (atomicDoc, error) {
	doc := atomicDoc{
		Type:              AtomicType,
		ID:                a.ID(),
		Member:            a.Member(),
		Operator:          a.Operator(),
		MultiSelectValues: a.MultiSelectValues(),
	}
	if t := a.MemberType(); t != nil {
		doc.MemberType = t.String()
	}
	v, err := naturalValue(a.Value())
	if err != nil {
		return atomicDoc{}, fmt.Errorf("codec: predicate %s: %w", a.ID(), err)
	}
	doc.Value = v
	return doc, nil
}

func lowerCompound[T any](c *model.Compound[T]) (compoundDoc, error) {
	doc := compoundDoc{
		Type:               CompoundType,
		ID:                 c.ID(),
		LogicalOperator:    c.LogicalOperator,
		AtomicPredicates:   []atomicDoc{},
		CompoundPredicates: []compoundDoc{},
	}
	if doc.LogicalOperator == "" {
		doc.LogicalOperator = model.And
	}
	for _, a := range c.Atomics() {
		d, err := lowerAtomic(a)
		if err != nil {
			return compoundDoc{}, err
		}
		doc.AtomicPredicates = append(doc.AtomicPredicates, d)
	}
	for _, sub := range c.Compounds() {
		d, err := lowerCompound(sub)
		if err != nil {
			return compoundDoc{}, err
		}
		doc.CompoundPredicates = append(doc.CompoundPredicates, d)
	}
	return doc, nil
}

// naturalValue maps a filter value onto a plain JSON scalar: enums by
// constant name, times as RFC 3339 UTC text, GUIDs as text.
func naturalValue(v any) (any, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if b, ok := rv.Interface().(*big.Int); ok {
			return json.Number(b.String()), nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}

	switch x := rv.Interface().(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return x.String(), nil
	case big.Int:
		return json.Number(x.String()), nil
	}
	if classify.IsEnumType(rv.Type()) {
		return rv.Interface().(fmt.Stringer).String(), nil
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice:
		if ss, ok := rv.Interface().([]string); ok {
			return ss, nil
		}
	}
	return nil, fmt.Errorf("value of type %T has no document form", v)
}
