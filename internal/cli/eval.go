package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// EvalResult lists the records a filter matched.
type EvalResult struct {
	Expression string     `json:"expression"`
	Total      int        `json:"total"`
	Matched    int        `json:"matched"`
	Matches    []customer `json:"matches"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &CompileFlags{}

	cmd := &cobra.Command{
		Use:   "eval <document> <records>",
		Short: "Filter a list of customer records",
		Long: `Compile a filter document and apply it to a JSON or YAML array of
customer records. Prints the matching records.

Examples:
  predicate eval filter.yaml customers.json
  predicate eval filter.json customers.yaml --ignore-case --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, flags, args[0], args[1], cmd)
		},
	}
	flags.register(cmd)

	return cmd
}

func runEval(opts *RootOptions, flags *CompileFlags, docPath, recordsPath string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	root, _, err := loadFilter(cmd, f, docPath)
	if err != nil {
		return err
	}
	records, err := loadRecords(cmd, f, recordsPath)
	if err != nil {
		return err
	}

	lambda, err := flags.generator(f).CompileExpression(root)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeCompile, err, nil)
	}
	f.VerboseLog("Compiled %s", lambda)

	match := lambda.Compile()
	result := EvalResult{Expression: lambda.String(), Total: len(records), Matches: []customer{}}
	for _, rec := range records {
		if match(rec) {
			result.Matches = append(result.Matches, rec)
		}
	}
	result.Matched = len(result.Matches)

	if f.JSON() {
		return f.Success(result)
	}
	w := f.Writer
	for _, rec := range result.Matches {
		fmt.Fprintf(w, "%s\t%s\n", rec.ID, rec.Name)
	}
	fmt.Fprintf(w, "%d of %d records match\n", result.Matched, result.Total)
	return nil
}
