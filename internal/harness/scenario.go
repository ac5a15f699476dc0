package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a filter conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Options configure the generator.
	Options Options `yaml:"options,omitempty"`

	// Filter is the interchange document, written as YAML.
	Filter map[string]any `yaml:"filter"`

	// Records are decoded into sample.Customer using its JSON field names.
	// If empty, sample.Customers() is used.
	Records []map[string]any `yaml:"records,omitempty"`

	// Assertions validate the compiled filter.
	Assertions []Assertion `yaml:"assertions"`
}

// Options mirror generator.Options.
type Options struct {
	CaseInsensitive bool `yaml:"case_insensitive,omitempty"`
	Strict          bool `yaml:"strict,omitempty"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Names are record names (used by matches and rejects).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected number of matches (used by match_count).
	Count int `yaml:"count,omitempty"`

	// Expression is the expected printed expression (used by expression).
	Expression string `yaml:"expression,omitempty"`

	// Contains is a substring of the expected error (used by compile_error).
	Contains string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertMatches      = "matches"
	AssertRejects      = "rejects"
	AssertMatchCount   = "match_count"
	AssertExpression   = "expression"
	AssertCompileError = "compile_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the scenario files at path: path itself if it is a
// file, otherwise every *.yaml and *.yml file under it, sorted.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (filepath.Ext(p) == ".yaml" || filepath.Ext(p) == ".yml") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Filter) == 0 {
		return fmt.Errorf("filter is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMatches:
		// an empty names list asserts that nothing matches
	case AssertRejects:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for rejects", index)
		}
	case AssertMatchCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for match_count", index)
		}
	case AssertExpression:
		if a.Expression == "" {
			return fmt.Errorf("assertions[%d]: expression is required for expression", index)
		}
	case AssertCompileError:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for compile_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
