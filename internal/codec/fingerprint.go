package codec

import (
	"fmt"
	"strings"

	"github.com/roach88/predicate/internal/convert"
	"github.com/roach88/predicate/internal/ir"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/operator"
)

// Fingerprint returns a content hash of the filter u describes.
//
// Node IDs are left out, operator aliases collapse to their canonical
// token and values hash by their text form, so two documents that compile
// to the same filter share a fingerprint.
func Fingerprint[T any](u model.Unit[T]) (string, error) {
	obj, err := Lower(u)
	if err != nil {
		return "", err
	}
	return ir.TreeHash(obj)
}

// Lower converts u into the constrained value tree that Fingerprint hashes.
func Lower[T any](u model.Unit[T]) (ir.IRObject, error) {
	switch v := u.(type) {
	case *model.Atomic[T]:
		if v != nil {
			return lowerAtomicIR(v), nil
		}
	case *model.Compound[T]:
		if v != nil {
			return lowerCompoundIR(v), nil
		}
	}
	return nil, &model.UnsupportedVariantError{Op: "fingerprint", Variant: fmt.Sprintf("%T", u)}
}

func lowerAtomicIR[T any](a *model.Atomic[T]) ir.IRObject {
	obj := ir.IRObject{
		"kind":     ir.IRString(AtomicType),
		"member":   ir.IRString(a.Member()),
		"operator": ir.IRString(operator.Canonical(a.Operator())),
		"value":    valueIR(a),
	}
	if multi := a.MultiSelectValues(); len(multi) > 0 {
		obj["multi"] = ir.Strings(multi)
	}
	return obj
}

// valueIR normalizes a leaf value through the member's type, so every
// spelling that compiles to the same constant hashes alike. List values
// hash as their normalized tokens.
func valueIR[T any](a *model.Atomic[T]) ir.IRValue {
	info := a.Field()
	v := a.Value()
	if operator.IsList(a.Operator()) {
		tokens := convert.SplitList(listText(v))
		out := make([]string, len(tokens))
		for i, tok := range tokens {
			out[i] = tok
			if info.Type == nil {
				continue
			}
			if native, err := convert.Parse(info, tok); err == nil {
				out[i] = convert.Format(native)
			}
		}
		return ir.Strings(out)
	}
	if info.Type != nil {
		if native, err := convert.ToNative(info, v); err == nil {
			v = native
		}
	}
	return ir.IRString(convert.Format(v))
}

func listText(v any) string {
	if tokens, ok := v.([]string); ok {
		return strings.Join(tokens, ", ")
	}
	return convert.Format(v)
}

func lowerCompoundIR[T any](c *model.Compound[T]) ir.IRObject {
	op := c.LogicalOperator
	if op != model.Or {
		op = model.And
	}
	atomics := make(ir.IRArray, 0, len(c.Atomics()))
	for _, a := range c.Atomics() {
		atomics = append(atomics, lowerAtomicIR(a))
	}
	compounds := make(ir.IRArray, 0, len(c.Compounds()))
	for _, sub := range c.Compounds() {
		compounds = append(compounds, lowerCompoundIR(sub))
	}
	return ir.IRObject{
		"kind":      ir.IRString(CompoundType),
		"op":        ir.IRString(op),
		"atomics":   atomics,
		"compounds": compounds,
	}
}
