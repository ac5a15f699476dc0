package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/predicate/internal/classify"
	"github.com/roach88/predicate/internal/convert"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/operator"
)

// rawUnit is used for two-phase parsing to determine the node variant.
type rawUnit struct {
	Type *string `json:"$predicate-unit-type"`
}

type rawAtomic struct {
	ID                uuid.UUID       `json:"Id"`
	Member            string          `json:"Member"`
	MemberType        string          `json:"MemberType"`
	Operator          string          `json:"Operator"`
	Value             json.RawMessage `json:"Value"`
	MultiSelectValues []string        `json:"MultiSelectValues"`
}

type rawCompound struct {
	ID                 uuid.UUID         `json:"Id"`
	LogicalOperator    json.RawMessage   `json:"LogicalOperator"`
	AtomicPredicates   []json.RawMessage `json:"AtomicPredicates"`
	CompoundPredicates []json.RawMessage `json:"CompoundPredicates"`
}

// UnmarshalJSON reads a document whose root may be either variant.
func UnmarshalJSON[T any](data []byte) (model.Unit[T], error) {
	return decodeUnit[T](bytes.TrimSpace(data), "$")
}

// UnmarshalRoot reads a document whose root must be a compound.
func UnmarshalRoot[T any](data []byte) (*model.Compound[T], error) {
	u, err := UnmarshalJSON[T](data)
	if err != nil {
		return nil, err
	}
	c, ok := u.(*model.Compound[T])
	if !ok {
		return nil, errorf("$", nil, "root must be a %s", CompoundType)
	}
	return c, nil
}

// UnmarshalYAML reads a YAML document with the JSON field names.
func UnmarshalYAML[T any](data []byte) (model.Unit[T], error) {
	js, err := YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalJSON[T](js)
}

// UnmarshalYAMLRoot is UnmarshalRoot for YAML documents.
func UnmarshalYAMLRoot[T any](data []byte) (*model.Compound[T], error) {
	js, err := YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return UnmarshalRoot[T](js)
}

// YAMLToJSON re-encodes a YAML document as JSON.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errorf("$", err, "invalid YAML")
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, errorf("$", err, "YAML document has no JSON form")
	}
	return js, nil
}

func decodeUnit[T any](data []byte, path string) (model.Unit[T], error) {
	var head rawUnit
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errorf(path, err, "invalid JSON")
	}
	if head.Type == nil {
		return nil, errorf(path, nil, "missing %q", DiscriminatorKey)
	}

	switch *head.Type {
	case AtomicType:
		return decodeAtomic[T](data, path)
	case CompoundType:
		return decodeCompound[T](data, path)
	default:
		return nil, errorf(path, nil, "unknown %s %q", DiscriminatorKey, *head.Type)
	}
}

func decodeCompound[T any](data []byte, path string) (*model.Compound[T], error) {
	var raw rawCompound
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errorf(path, err, "invalid compound predicate")
	}

	op, err := logicalOperator(raw.LogicalOperator)
	if err != nil {
		return nil, errorf(path+".LogicalOperator", err, "invalid logical operator")
	}

	c := model.NewCompound[T](model.UUIDv7Generator{}, op)
	if raw.ID != uuid.Nil {
		c.SetID(raw.ID)
	}

	for i, child := range raw.AtomicPredicates {
		p := fmt.Sprintf("%s.AtomicPredicates[%d]", path, i)
		u, err := decodeUnit[T](child, p)
		if err != nil {
			return nil, err
		}
		if _, ok := u.(*model.Atomic[T]); !ok {
			return nil, errorf(p, nil, "%s listed under AtomicPredicates", CompoundType)
		}
		if err := c.AddPredicate(u); err != nil {
			return nil, errorf(p, err, "cannot attach")
		}
	}
	for i, child := range raw.CompoundPredicates {
		p := fmt.Sprintf("%s.CompoundPredicates[%d]", path, i)
		u, err := decodeUnit[T](child, p)
		if err != nil {
			return nil, err
		}
		if _, ok := u.(*model.Compound[T]); !ok {
			return nil, errorf(p, nil, "%s listed under CompoundPredicates", AtomicType)
		}
		if err := c.AddPredicate(u); err != nil {
			return nil, errorf(p, err, "cannot attach")
		}
	}
	return c, nil
}

// logicalOperator accepts "And"/"Or" in any case, or the numeric form
// 0 (And) / 1 (Or) older writers produced. Absent means And.
func logicalOperator(raw json.RawMessage) (model.LogicalOperator, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return model.And, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n {
		case 0:
			return model.And, nil
		case 1:
			return model.Or, nil
		}
		return "", fmt.Errorf("unknown value %d", n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return model.ParseLogicalOperator(s)
}

func decodeAtomic[T any](data []byte, path string) (*model.Atomic[T], error) {
	var raw rawAtomic
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errorf(path, err, "invalid atomic predicate")
	}

	a := model.NewAtomic[T](model.UUIDv7Generator{})
	if raw.ID != uuid.Nil {
		a.SetID(raw.ID)
	}

	var info classify.Info
	if raw.Member != "" {
		if strings.TrimSpace(raw.Member) == "" {
			return nil, errorf(path+".Member", nil, "member is blank")
		}
		var err error
		info, err = a.SetMember(raw.Member)
		if err != nil {
			return nil, errorf(path+".Member", err, "cannot resolve member")
		}
		if raw.MemberType != "" && (info.Type == nil || raw.MemberType != info.Type.String()) {
			return nil, errorf(path+".MemberType", nil,
				"document says %s but %s is %s", raw.MemberType, raw.Member, info.Type)
		}
	}

	a.SetOperator(raw.Operator)
	if len(raw.MultiSelectValues) > 0 {
		a.SetMultiSelectValues(raw.MultiSelectValues)
	}

	v, err := restoreValue(raw.Value, info, raw.Operator)
	if err != nil {
		return nil, errorf(path+".Value", err, "invalid value")
	}
	a.SetValue(v)
	return a, nil
}

// restoreValue converts a document value back to the member's type.
func restoreValue(raw json.RawMessage, info classify.Info, op string) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var text string
	switch x := v.(type) {
	case string:
		text = x
	case json.Number:
		text = x.String()
	case bool:
		if info.Category == classify.Boolean {
			return x, nil
		}
		text = fmt.Sprint(x)
	case []any:
		tokens := make([]string, len(x))
		for i, t := range x {
			tokens[i] = fmt.Sprint(t)
		}
		text = strings.Join(tokens, ", ")
	default:
		return nil, fmt.Errorf("expected a scalar, got %T", v)
	}

	if info.Type == nil || operator.IsList(op) {
		return text, nil
	}
	native, err := convert.Parse(info, text)
	if err != nil {
		// kept as text; compilation reports the conversion error
		return text, nil
	}
	return native, nil
}
