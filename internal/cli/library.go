package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/predicate/internal/store"
)

// DefaultDatabase is the filter library used when --db is not given.
const DefaultDatabase = "predicate.db"

// LibraryOptions holds flags shared by the filter library commands.
type LibraryOptions struct {
	*RootOptions
	Database string
}

func (o *LibraryOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Database, "db", DefaultDatabase, "path to SQLite filter library")
}

// open opens the library. Unless create is set, the database file must
// already exist.
func (o *LibraryOptions) open(f *OutputFormatter, create bool) (*store.Store, error) {
	if !create {
		if _, err := os.Stat(o.Database); os.IsNotExist(err) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("database not found: %s", o.Database), nil)
		}
	}
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, fmt.Errorf("failed to open database: %w", err), nil)
	}
	f.VerboseLog("Opened %s", o.Database)
	return st, nil
}

// FilterSummary describes a saved filter.
type FilterSummary struct {
	Name        string `json:"name"`
	RootID      string `json:"root_id"`
	Fingerprint string `json:"fingerprint"`
	Seq         int64  `json:"seq"`
	SavedAt     string `json:"saved_at"`
}

func summarize(f store.Filter) FilterSummary {
	return FilterSummary{
		Name:        f.Name,
		RootID:      f.RootID,
		Fingerprint: f.Fingerprint,
		Seq:         f.Seq,
		SavedAt:     f.SavedAt.UTC().Format(time.RFC3339),
	}
}

// SaveResult reports a saved filter and any other names holding the same
// filter.
type SaveResult struct {
	Filter     FilterSummary `json:"filter"`
	Duplicates []string      `json:"duplicates,omitempty"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <name> <document>",
		Short: "Save a filter document to the library",
		Long: `Check a filter document and store it under name, replacing any filter
already saved under that name. The library is created if needed.

Examples:
  predicate save active-adults filter.yaml
  predicate save active-adults filter.yaml --db ./filters.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], args[1], cmd)
		},
	}
	opts.register(cmd)

	return cmd
}

func runSave(opts *LibraryOptions, name, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	root, _, err := loadFilter(cmd, f, path)
	if err != nil {
		return err
	}

	st, err := opts.open(f, true)
	if err != nil {
		return err
	}
	defer st.Close()

	saved, err := store.SaveTree[customer](ctx, st, name, root)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err, nil)
	}

	result := SaveResult{Filter: summarize(saved)}
	same, err := st.FindByFingerprint(ctx, saved.Fingerprint)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err, nil)
	}
	for _, other := range same {
		if other.Name != saved.Name {
			result.Duplicates = append(result.Duplicates, other.Name)
		}
	}

	if f.JSON() {
		return f.Success(result)
	}
	w := f.Writer
	fmt.Fprintf(w, "✓ Saved %s (seq %d)\n", saved.Name, saved.Seq)
	for _, dup := range result.Duplicates {
		fmt.Fprintf(w, "  same filter as %s\n", dup)
	}
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}
	var history bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved filters",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, history, cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&history, "history", false, "order by save sequence instead of name")

	return cmd
}

func runList(opts *LibraryOptions, history bool, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	st, err := opts.open(f, false)
	if err != nil {
		return err
	}
	defer st.Close()

	list := st.List
	if history {
		list = st.History
	}
	filters, err := list(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, err, nil)
	}

	summaries := make([]FilterSummary, 0, len(filters))
	for _, flt := range filters {
		summaries = append(summaries, summarize(flt))
	}

	if f.JSON() {
		return f.Success(summaries)
	}
	w := f.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No filters saved.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%-24s  %s  %s\n", s.Name, s.Fingerprint[:12], s.SavedAt)
	}
	return nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}
	var to string

	cmd := &cobra.Command{
		Use:           "show <name>",
		Short:         "Print a saved filter document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], to, cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&to, "to", "yaml", "output encoding (json|yaml)")

	return cmd
}

func runShow(opts *LibraryOptions, name, to string, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	st, err := opts.open(f, false)
	if err != nil {
		return err
	}
	defer st.Close()

	root, err := store.LoadTree[customer](ctx, st, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, err, nil)
		}
		return f.Fail(ExitFailure, ErrCodeStore, err, nil)
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

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved filter",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f := newFormatter(opts.RootOptions, cmd)

			st, err := opts.open(f, false)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return f.Fail(ExitCommandError, ErrCodeNotFound, err, nil)
				}
				return f.Fail(ExitFailure, ErrCodeStore, err, nil)
			}
			if f.JSON() {
				return f.Success(map[string]string{"deleted": args[0]})
			}
			return f.Success(fmt.Sprintf("✓ Deleted %s", args[0]))
		},
	}
	opts.register(cmd)

	return cmd
}

