package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/generator"
	"github.com/roach88/predicate/internal/model"
	"github.com/roach88/predicate/internal/sample"
	"github.com/roach88/predicate/internal/schema"
)

type customer = sample.Customer

// CompileFlags select generator behavior.
type CompileFlags struct {
	Strict     bool
	IgnoreCase bool
}

func (c *CompileFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.Strict, "strict", false, "fail on operators a member type does not support")
	cmd.Flags().BoolVarP(&c.IgnoreCase, "ignore-case", "i", false, "compare text case-insensitively")
}

func (c *CompileFlags) generator(f *OutputFormatter) *generator.Generator[customer] {
	opts := generator.Options{Logger: f.Logger()}
	if c.Strict {
		opts.Mode = generator.Strict
	}
	if c.IgnoreCase {
		opts.CaseSensitivity = generator.CaseInsensitive
	}
	return generator.New[customer](opts)
}

// readInput reads path, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// toJSON returns data as JSON. YAML is recognized by extension, or by
// content that does not open a JSON object or array.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return data, nil
	case ".yaml", ".yml":
		return codec.YAMLToJSON(data)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return data, nil
	}
	return codec.YAMLToJSON(data)
}

// loadFilter reads a root filter document, checks it against the schema
// and decodes it. Failures are reported through f.
func loadFilter(cmd *cobra.Command, f *OutputFormatter, path string) (*model.Compound[customer], []byte, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("document not found: %s", path), nil)
		}
		return nil, nil, f.Fail(ExitCommandError, ErrCodeGeneric, err, nil)
	}
	f.VerboseLog("Read %d bytes from %s", len(raw), path)

	doc, err := toJSON(path, raw)
	if err != nil {
		return nil, nil, f.Fail(ExitFailure, ErrCodeDecode, err, nil)
	}

	if err := schema.ValidateRoot(doc); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			return nil, nil, f.Fail(ExitFailure, ErrCodeSchema, err, ve.Issues)
		}
		return nil, nil, f.Fail(ExitFailure, ErrCodeSchema, err, nil)
	}

	root, err := codec.UnmarshalRoot[customer](doc)
	if err != nil {
		var ce *codec.Error
		if errors.As(err, &ce) {
			return nil, nil, f.Fail(ExitFailure, ErrCodeDecode, err, map[string]string{"path": ce.Path})
		}
		return nil, nil, f.Fail(ExitFailure, ErrCodeDecode, err, nil)
	}
	return root, doc, nil
}

// loadRecords reads a JSON or YAML array of customer records.
func loadRecords(cmd *cobra.Command, f *OutputFormatter, path string) ([]customer, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("records not found: %s", path), nil)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, err, nil)
	}
	data, err := toJSON(path, raw)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeRecords, err, nil)
	}
	var records []customer
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeRecords, fmt.Errorf("records: %w", err), nil)
	}
	return records, nil
}

// encodeDocument writes root as JSON or YAML.
func encodeDocument(root *model.Compound[customer], to string) ([]byte, error) {
	switch to {
	case "json":
		return codec.MarshalIndentJSON[customer](root)
	case "yaml":
		return codec.MarshalYAML[customer](root)
	}
	return nil, fmt.Errorf("unknown document format %q: must be json or yaml", to)
}
