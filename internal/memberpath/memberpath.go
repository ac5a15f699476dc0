// Package memberpath resolves dotted member paths ("Address.City") against
// a record type and turns them into composable field-access expressions.
package memberpath

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/predicate/internal/expr"
)

// ResolutionError reports a path that does not name a readable member.
type ResolutionError struct {
	Path    string
	Segment string
	Type    reflect.Type
	Reason  string
}

func (e *ResolutionError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("member path %q on %v: %s", e.Path, e.Type, e.Reason)
	}
	return fmt.Sprintf("member path %q: segment %q on %v: %s", e.Path, e.Segment, e.Type, e.Reason)
}

// Path is a resolved member path.
type Path struct {
	root   reflect.Type
	raw    string
	fields []reflect.StructField
}

// Resolve walks path against root. Each segment must name an exported
// field (promoted fields of embedded structs included) of the struct the
// previous segment produced. Pointer types are followed transparently.
func Resolve(root reflect.Type, path string) (*Path, error) {
	if root == nil {
		return nil, &ResolutionError{Path: path, Reason: "no root type"}
	}
	if strings.TrimSpace(path) == "" {
		return nil, &ResolutionError{Path: path, Type: root, Reason: "empty path"}
	}

	p := &Path{root: root, raw: path}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		st := deref(cur)
		if seg == "" {
			return nil, &ResolutionError{Path: path, Segment: seg, Type: cur, Reason: "empty segment"}
		}
		if st.Kind() != reflect.Struct {
			return nil, &ResolutionError{Path: path, Segment: seg, Type: cur, Reason: "not a struct"}
		}
		sf, ok := st.FieldByName(seg)
		if !ok {
			return nil, &ResolutionError{Path: path, Segment: seg, Type: cur, Reason: "no such member"}
		}
		if !exportedChain(st, sf.Index) {
			return nil, &ResolutionError{Path: path, Segment: seg, Type: cur, Reason: "member is not exported"}
		}
		p.fields = append(p.fields, sf)
		cur = sf.Type
	}
	return p, nil
}

// For resolves path against T.
func For[T any](path string) (*Path, error) {
	return Resolve(reflect.TypeFor[T](), path)
}

// MustFor is For that panics on error. Intended for package-level vars.
func MustFor[T any](path string) *Path {
	p, err := For[T](path)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path as given.
func (p *Path) String() string { return p.raw }

// Root returns the type the path was resolved against.
func (p *Path) Root() reflect.Type { return p.root }

// Type returns the static type of the terminal member.
func (p *Path) Type() reflect.Type { return p.fields[len(p.fields)-1].Type }

// Segments returns the path split on dots.
func (p *Path) Segments() []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.Name
	}
	return out
}

// Bind builds the field-access chain rooted at operand.
func (p *Path) Bind(operand expr.Expr) expr.Expr {
	e := operand
	for _, f := range p.fields {
		e = expr.FieldOf(e, f)
	}
	return e
}

// Get reads the member from record, returning the zero Value when a nil
// pointer interrupts the path.
func (p *Path) Get(record any) reflect.Value {
	return expr.Eval(p.Bind(expr.Param("x", p.root)), reflect.ValueOf(record))
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// exportedChain reports whether every field along index is exported,
// including the embedded structs a promoted field passes through.
func exportedChain(t reflect.Type, index []int) bool {
	for _, i := range index {
		t = deref(t)
		sf := t.Field(i)
		if !sf.IsExported() {
			return false
		}
		t = sf.Type
	}
	return true
}
