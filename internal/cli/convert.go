package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/predicate/internal/codec"
)

// ConvertResult carries a re-encoded document.
type ConvertResult struct {
	Format   string `json:"format"`
	Document string `json:"document"`
}

// HashResult carries a document fingerprint.
type HashResult struct {
	Fingerprint string `json:"fingerprint"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <document>",
		Short: "Re-encode a filter document as JSON or YAML",
		Long: `Decode a filter document and write it back out in the requested
encoding. Values are normalized to the member's type on the way through.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], to, cmd)
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "output encoding (json|yaml)")

	return cmd
}

func runConvert(opts *RootOptions, path, to string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	root, _, err := loadFilter(cmd, f, path)
	if err != nil {
		return err
	}
	out, err := encodeDocument(root, to)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err, nil)
	}

	if f.JSON() {
		return f.Success(ConvertResult{Format: to, Document: string(out)})
	}
	_, err = fmt.Fprintln(f.Writer, string(out))
	return err
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <document>",
		Short: "Print the fingerprint of a filter document",
		Long: `Print the content hash of a filter. Node IDs do not contribute, so two
documents describing the same filter share a fingerprint.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			root, _, err := loadFilter(cmd, f, args[0])
			if err != nil {
				return err
			}
			fp, err := codec.Fingerprint[customer](root)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, err, nil)
			}
			if f.JSON() {
				return f.Success(HashResult{Fingerprint: fp})
			}
			return f.Success(fp)
		},
	}
}
