package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/predicate/internal/sample"
)

const filterJSON = `{
  "$predicate-unit-type": "compound-predicate",
  "LogicalOperator": "And",
  "AtomicPredicates": [
    {"$predicate-unit-type": "atomic-predicate", "Member": "Age", "Operator": "greater-than-or-equal", "Value": 28},
    {"$predicate-unit-type": "atomic-predicate", "Member": "Country", "Operator": "equals", "Value": "France"}
  ]
}`

const filterYAML = `$predicate-unit-type: compound-predicate
LogicalOperator: and
AtomicPredicates:
  - $predicate-unit-type: atomic-predicate
    Member: Age
    Operator: greater-than-or-equal
    Value: "28"
  - $predicate-unit-type: atomic-predicate
    Member: Country
    Operator: equals
    Value: France
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeRecords(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal(sample.Customers())
	require.NoError(t, err)
	return writeFile(t, dir, "customers.json", string(data))
}

// execute runs the CLI with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.json", filterJSON)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "2 predicates in 1 groups")
	assert.Contains(t, out, "x.Age >= 28")

	out, err = execute(t, "--format", "json", "check", path)
	require.NoError(t, err)
	var result CheckResult
	decodeData(t, out, &result)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Predicates)
	assert.Equal(t, 1, result.Groups)
	assert.Len(t, result.Fingerprint, 64)
	assert.True(t, strings.HasPrefix(result.Expression, "x => "))
}

func TestHashCommand_YAMLMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "filter.json", filterJSON)
	yamlPath := writeFile(t, dir, "filter.yaml", filterYAML)

	jsonOut, err := execute(t, "hash", jsonPath)
	require.NoError(t, err)
	yamlOut, err := execute(t, "hash", yamlPath)
	require.NoError(t, err)

	assert.Len(t, strings.TrimSpace(jsonOut), 64)
	assert.Equal(t, jsonOut, yamlOut)
}

func TestCheckCommand_Stdin(t *testing.T) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(filterYAML))
	cmd.SetArgs([]string{"check", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "is valid")
}

func TestCheckCommand_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		wantCode string
		wantExit int
	}{
		{
			name:     "schema",
			content:  `{"LogicalOperator": "And"}`,
			wantCode: ErrCodeSchema,
			wantExit: ExitFailure,
		},
		{
			name:     "atomic root",
			content:  `{"$predicate-unit-type": "atomic-predicate", "Member": "Age"}`,
			wantCode: ErrCodeSchema,
			wantExit: ExitFailure,
		},
		{
			name: "blank member",
			content: `{"$predicate-unit-type": "compound-predicate", "AtomicPredicates": [
				{"$predicate-unit-type": "atomic-predicate", "Member": "  ", "MemberType": "int", "Operator": "equals", "Value": 1}]}`,
			wantCode: ErrCodeDecode,
			wantExit: ExitFailure,
		},
		{
			name: "unknown member",
			content: `{"$predicate-unit-type": "compound-predicate", "AtomicPredicates": [
				{"$predicate-unit-type": "atomic-predicate", "Member": "Shoe", "Operator": "is", "Value": "x"}]}`,
			wantCode: ErrCodeDecode,
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.content)

			out, err := execute(t, "--format", "json", "check", path)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCheckCommand_MissingFile(t *testing.T) {
	out, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "document not found")
}

func TestCheckCommand_Strict(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.json", `{
  "$predicate-unit-type": "compound-predicate",
  "AtomicPredicates": [
    {"$predicate-unit-type": "atomic-predicate", "Member": "Active", "Operator": "contains", "Value": true}
  ]
}`)

	_, err := execute(t, "check", path)
	require.NoError(t, err)

	out, err := execute(t, "check", "--strict", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E012]")
	assert.Contains(t, out, "not supported")
}

func TestEvalCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.json", filterJSON)
	records := writeRecords(t, dir)

	out, err := execute(t, "eval", path, records)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice Martin")
	assert.NotContains(t, out, "Chen Wei")
	assert.Contains(t, out, "1 of 4 records match")

	out, err = execute(t, "--format", "json", "eval", path, records)
	require.NoError(t, err)
	var result EvalResult
	decodeData(t, out, &result)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Matched)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Alice Martin", result.Matches[0].Name)
}

func TestEvalCommand_IgnoreCase(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.yaml", `$predicate-unit-type: compound-predicate
AtomicPredicates:
  - $predicate-unit-type: atomic-predicate
    Member: Country
    Operator: equals
    Value: FRANCE
`)
	records := writeRecords(t, dir)

	out, err := execute(t, "eval", path, records)
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 4 records match")

	out, err = execute(t, "eval", "-i", path, records)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 4 records match")
}

func TestEvalCommand_BadRecords(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.json", filterJSON)
	records := writeFile(t, dir, "records.json", `{"not": "a list"}`)

	out, err := execute(t, "eval", path, records)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E013]")
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.yaml", filterYAML)

	out, err := execute(t, "convert", "--to", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"$predicate-unit-type": "compound-predicate"`)
	assert.Contains(t, out, `"LogicalOperator": "And"`)
	assert.Contains(t, out, `"MemberType": "int"`)
	assert.Contains(t, out, `"Value": 28`)

	// The converted document is itself a valid filter.
	converted := writeFile(t, dir, "converted.json", out)
	_, err = execute(t, "check", converted)
	require.NoError(t, err)

	out, err = execute(t, "convert", path)
	require.NoError(t, err)
	assert.Contains(t, out, "LogicalOperator: And")

	_, err = execute(t, "convert", "--to", "toml", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHashCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "filter.json", filterJSON)

	out, err := execute(t, "--format", "json", "hash", path)
	require.NoError(t, err)
	var result HashResult
	decodeData(t, out, &result)
	assert.Len(t, result.Fingerprint, 64)

	text, err := execute(t, "hash", path)
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, strings.TrimSpace(text))
}

func TestLibraryCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "filters.db")
	path := writeFile(t, dir, "filter.json", filterJSON)

	out, err := execute(t, "save", "--db", db, "adults-in-france", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Saved adults-in-france")

	out, err = execute(t, "--format", "json", "save", "--db", db, "copy", path)
	require.NoError(t, err)
	var saved SaveResult
	decodeData(t, out, &saved)
	assert.Equal(t, "copy", saved.Filter.Name)
	assert.Equal(t, []string{"adults-in-france"}, saved.Duplicates)

	out, err = execute(t, "--format", "json", "list", "--db", db)
	require.NoError(t, err)
	var list []FilterSummary
	decodeData(t, out, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "adults-in-france", list[0].Name)
	assert.Equal(t, "copy", list[1].Name)
	assert.Less(t, list[0].Seq, list[1].Seq)
	assert.Equal(t, list[0].Fingerprint, list[1].Fingerprint)

	out, err = execute(t, "show", "--db", db, "--to", "json", "copy")
	require.NoError(t, err)
	assert.Contains(t, out, `"Member": "Country"`)

	out, err = execute(t, "delete", "--db", db, "copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted copy")

	out, err = execute(t, "delete", "--db", db, "copy")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")

	_, err = execute(t, "show", "--db", db, "copy")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err = execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "adults-in-france")
	assert.NotContains(t, out, "copy")
}

func TestLibraryCommands_MissingDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "absent.db")

	for _, args := range [][]string{
		{"list", "--db", db},
		{"show", "--db", db, "x"},
		{"delete", "--db", db, "x"},
	} {
		t.Run(args[0], func(t *testing.T) {
			out, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "database not found")
		})
	}

	_, err := os.Stat(db)
	assert.True(t, os.IsNotExist(err), "read-only commands must not create the database")
}

func TestLibraryCommands_EmptyList(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "filters.db")
	path := writeFile(t, dir, "filter.json", filterJSON)

	_, err := execute(t, "save", "--db", db, "only", path)
	require.NoError(t, err)
	_, err = execute(t, "delete", "--db", db, "only")
	require.NoError(t, err)

	out, err := execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No filters saved.")
}

const passingScenario = `name: adults_in_france
description: "Age and country"
filter:
  $predicate-unit-type: compound-predicate
  AtomicPredicates:
    - $predicate-unit-type: atomic-predicate
      Member: Age
      Operator: greater-than-or-equal
      Value: 28
    - $predicate-unit-type: atomic-predicate
      Member: Country
      Operator: equals
      Value: France
assertions:
  - type: matches
    names: [Alice Martin]
`

const failingScenario = `name: wrong_expectation
description: "Expects the wrong customer"
filter:
  $predicate-unit-type: compound-predicate
  AtomicPredicates:
    - $predicate-unit-type: atomic-predicate
      Member: Country
      Operator: equals
      Value: France
assertions:
  - type: matches
    names: [Bruno Keller]
`

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adults.yaml", passingScenario)

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ adults_in_france")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_Failures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adults.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	decodeData(t, out, &result)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Scenarios[1].Pass)
	assert.NotEmpty(t, result.Scenarios[1].Errors)

	out, err = execute(t, "test", "--filter", "adult*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_Repository(t *testing.T) {
	out, err := execute(t, "test", "../harness/testdata/scenarios")
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 failed")
}

func TestTestCommand_MissingPath(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
