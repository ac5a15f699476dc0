package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/generator"
	"github.com/roach88/predicate/internal/sample"
	"github.com/roach88/predicate/internal/schema"
)

// Run executes a scenario with generator diagnostics discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Execution flow:
//  1. Validate the filter against the CUE schema and decode it
//  2. Decode the records (or use sample.Customers)
//  3. Compile the filter as an expression and as a closure
//  4. Evaluate both on every record; any disagreement fails the scenario
//  5. Evaluate assertions
//
// An error is returned only when the scenario itself is unusable.
// Assertion failures are reported in Result.Errors.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	doc, err := json.Marshal(scenario.Filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	if err := schema.ValidateRoot(doc); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	root, err := codec.UnmarshalRoot[sample.Customer](doc)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	records, err := decodeRecords(scenario.Records)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	if result.Fingerprint, err = codec.Fingerprint[sample.Customer](root); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	opts := generator.Options{Logger: logger}
	if scenario.Options.Strict {
		opts.Mode = generator.Strict
	}
	if scenario.Options.CaseInsensitive {
		opts.CaseSensitivity = generator.CaseInsensitive
	}
	g := generator.New[sample.Customer](opts)

	lambda, err := g.CompileExpression(root)
	if err != nil {
		result.CompileError = err.Error()
	} else {
		result.Expression = lambda.String()
		fn := lambda.Compile()
		for i, rec := range records {
			got := lambda.Eval(rec)
			if fn(rec) != got {
				result.AddError(fmt.Sprintf("record %d (%q): expression says %t, compiled func disagrees", i, rec.Name, got))
			}
			if got {
				result.Matches = append(result.Matches, rec.Name)
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func decodeRecords(raw []map[string]any) ([]sample.Customer, error) {
	if len(raw) == 0 {
		return sample.Customers(), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	var records []sample.Customer
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	return records, nil
}
