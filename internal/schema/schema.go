// Package schema validates interchange documents against an embedded CUE
// schema before they are decoded.
//
// The schema is structural only: it checks discriminators, field names and
// value shapes. Whether a member exists on the record type is left to the
// codec, which resolves it against T.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed predicate.cue
var source string

// Source returns the CUE schema text.
func Source() string { return source }

// Issue is a single schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationError lists every violation CUE reported for a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "schema: " + e.Issues[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "schema: %d issues", len(e.Issues))
	for _, is := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(is.String())
	}
	return b.String()
}

func (is Issue) String() string {
	if is.Path == "" {
		return is.Message
	}
	return is.Path + ": " + is.Message
}

// Validator checks documents against the #Unit or #Compound definition.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so all
// methods serialize on an internal mutex.
type Validator struct {
	mu       sync.Mutex
	ctx      *cue.Context
	unit     cue.Value
	compound cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(source, cue.Filename("predicate.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	return &Validator{
		ctx:      ctx,
		unit:     v.LookupPath(cue.ParsePath("#Unit")),
		compound: v.LookupPath(cue.ParsePath("#Compound")),
	}, nil
}

// Validate checks a JSON document whose root may be either variant.
func (v *Validator) Validate(doc []byte) error {
	return v.check(doc, func(v *Validator) cue.Value { return v.unit })
}

// ValidateRoot checks a JSON document whose root must be a compound.
func (v *Validator) ValidateRoot(doc []byte) error {
	return v.check(doc, func(v *Validator) cue.Value { return v.compound })
}

func (v *Validator) check(doc []byte, def func(*Validator) cue.Value) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	val := v.ctx.CompileBytes(doc, cue.Filename("document.json"))
	if err := val.Err(); err != nil {
		return toValidationError(err)
	}
	if err := def(v).Unify(val).Validate(cue.Concrete(true)); err != nil {
		return toValidationError(err)
	}
	return nil
}

var defaultValidator = sync.OnceValues(New)

// Validate checks doc with a shared Validator.
func Validate(doc []byte) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate(doc)
}

// ValidateRoot checks doc with a shared Validator.
func ValidateRoot(doc []byte) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.ValidateRoot(doc)
}

func toValidationError(err error) *ValidationError {
	ve := &ValidationError{}
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		is := Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if pos := errors.Positions(e); len(pos) > 0 {
			is.Line = pos[0].Line()
		}
		ve.Issues = append(ve.Issues, is)
	}
	if len(ve.Issues) == 0 {
		ve.Issues = []Issue{{Message: err.Error()}}
	}
	return ve
}
