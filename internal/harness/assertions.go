package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	if a.Type == AssertCompileError {
		return assertCompileError(result, a)
	}
	if result.CompileError != "" {
		return &AssertionError{Type: a.Type, Expected: "filter compiles", Actual: result.CompileError}
	}

	switch a.Type {
	case AssertMatches:
		return assertMatches(result, a)
	case AssertRejects:
		return assertRejects(result, a)
	case AssertMatchCount:
		return assertMatchCount(result, a)
	case AssertExpression:
		return assertExpression(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertMatches checks that exactly the named records match, in record order.
func assertMatches(result *Result, a Assertion) error {
	want := a.Names
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(result.Matches, want) {
		return &AssertionError{
			Type:     AssertMatches,
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%q", result.Matches),
		}
	}
	return nil
}

// assertRejects checks that none of the named records match.
func assertRejects(result *Result, a Assertion) error {
	var hit []string
	for _, name := range a.Names {
		if slices.Contains(result.Matches, name) {
			hit = append(hit, name)
		}
	}
	if len(hit) > 0 {
		return &AssertionError{
			Type:     AssertRejects,
			Expected: fmt.Sprintf("no match for %q", a.Names),
			Actual:   fmt.Sprintf("matched %q", hit),
		}
	}
	return nil
}

func assertMatchCount(result *Result, a Assertion) error {
	if len(result.Matches) != a.Count {
		return &AssertionError{
			Type:     AssertMatchCount,
			Expected: fmt.Sprintf("%d matches", a.Count),
			Actual:   fmt.Sprintf("%d matches %q", len(result.Matches), result.Matches),
		}
	}
	return nil
}

func assertExpression(result *Result, a Assertion) error {
	if result.Expression != a.Expression {
		return &AssertionError{
			Type:     AssertExpression,
			Expected: a.Expression,
			Actual:   result.Expression,
		}
	}
	return nil
}

func assertCompileError(result *Result, a Assertion) error {
	if result.CompileError == "" {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("error containing %q", a.Contains),
			Actual:   "compiled to " + result.Expression,
		}
	}
	if !strings.Contains(result.CompileError, a.Contains) {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("error containing %q", a.Contains),
			Actual:   result.CompileError,
		}
	}
	return nil
}
