// Package codec reads and writes predicate trees as tagged-union documents.
//
// Every node carries a "$predicate-unit-type" discriminator. Compounds list
// their children in two arrays, AtomicPredicates and CompoundPredicates.
// Parent links are never written; they are rebuilt from nesting on read.
//
//	{
//	  "$predicate-unit-type": "compound-predicate",
//	  "Id": "0195b7a0-...",
//	  "LogicalOperator": "And",
//	  "AtomicPredicates": [
//	    {"$predicate-unit-type": "atomic-predicate", "Id": "...",
//	     "Member": "Age", "MemberType": "int", "Operator": "greater-than", "Value": 30}
//	  ],
//	  "CompoundPredicates": []
//	}
//
// Values are written in their natural JSON form. On read the member is
// restored first, then the operator, and the value is converted back to
// the member's type as resolved against T. A value that no longer converts
// is kept as text so compilation reports the conversion error.
package codec

import (
	"errors"
	"fmt"
)

// Discriminator key and values.
const (
	DiscriminatorKey = "$predicate-unit-type"
	AtomicType       = "atomic-predicate"
	CompoundType     = "compound-predicate"
)

// Error reports a malformed or incompatible document.
type Error struct {
	Path string // JSON path of the offending node, e.g. $.CompoundPredicates[0]
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := "codec: " + e.Path + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// IsError reports whether err wraps a codec *Error.
func IsError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

func errorf(path string, err error, format string, args ...any) *Error {
	return &Error{Path: path, Msg: fmt.Sprintf(format, args...), Err: err}
}
