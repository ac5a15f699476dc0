package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/predicate/internal/codec"
	"github.com/roach88/predicate/internal/model"
)

// CheckResult describes a valid filter document.
type CheckResult struct {
	Valid       bool   `json:"valid"`
	Expression  string `json:"expression"`
	Fingerprint string `json:"fingerprint"`
	Predicates  int    `json:"predicates"`
	Groups      int    `json:"groups"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &CompileFlags{}

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Validate and compile a filter document",
		Long: `Validate a filter document against the schema, decode it against the
customer record, and compile it. Prints the compiled expression.

Use "-" to read the document from standard input.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, flags, args[0], cmd)
		},
	}
	flags.register(cmd)

	return cmd
}

func runCheck(opts *RootOptions, flags *CompileFlags, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	root, _, err := loadFilter(cmd, f, path)
	if err != nil {
		return err
	}

	lambda, err := flags.generator(f).CompileExpression(root)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeCompile, err, nil)
	}
	fp, err := codec.Fingerprint[customer](root)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, err, nil)
	}

	result := CheckResult{Valid: true, Expression: lambda.String(), Fingerprint: fp}
	model.Walk[customer](root, func(u model.Unit[customer], depth int) bool {
		if _, ok := u.(*model.Atomic[customer]); ok {
			result.Predicates++
		} else {
			result.Groups++
		}
		return true
	})

	if f.JSON() {
		return f.Success(result)
	}
	w := f.Writer
	fmt.Fprintf(w, "✓ %s is valid (%d predicates in %d groups)\n", path, result.Predicates, result.Groups)
	fmt.Fprintf(w, "  %s\n", result.Expression)
	return nil
}
