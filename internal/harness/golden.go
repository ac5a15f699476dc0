package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/predicate/internal/ir"
)

// Snapshot captures what a scenario compiled to and matched.
type Snapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Expression   string   `json:"expression,omitempty"`
	CompileError string   `json:"compile_error,omitempty"`
	Matches      []string `json:"matches"`
}

// toCanonicalMap converts a Snapshot for ir.MarshalCanonical, which only
// handles IR types and primitives.
func (s *Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"matches":       s.Matches,
	}
	if s.Expression != "" {
		m["expression"] = s.Expression
	}
	if s.CompileError != "" {
		m["compile_error"] = s.CompileError
	}
	return m
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against the golden file for
// scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Expression:   result.Expression,
		CompileError: result.CompileError,
		Matches:      result.Matches,
	}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
