package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hvprm/internal/ir"
	"github.com/roach88/hvprm/internal/removal"
)

// DependentsOptions holds flags for the dependents command.
type DependentsOptions struct {
	*RootOptions
	Database string
	ID       int64
	Title    string
	Version  string
}

// DependentsResult is the dependents command payload.
type DependentsResult struct {
	Library    ir.Library `json:"library"`
	Dependents []string   `json:"dependents"`
}

// String renders the result for text output.
func (r DependentsResult) String() string {
	if len(r.Dependents) == 0 {
		return fmt.Sprintf("Library '%s' has no dependent libraries.", r.Library.Label())
	}
	s := fmt.Sprintf("Library '%s' has %d dependent libraries:", r.Library.Label(), len(r.Dependents))
	for _, label := range r.Dependents {
		s += "\n  " + label
	}
	return s
}

// NewDependentsCommand creates the dependents command.
func NewDependentsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DependentsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dependents",
		Short: "List the libraries that depend on a library",
		Long: `List the libraries that declare the selected library as a dependency.

This is the check "remove" runs before deleting anything. It never modifies
the database.

Examples:
  hvprm dependents --db moodle.db --id 12
  hvprm dependents --db moodle.db --title "Interactive Video" --version 1.21.3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDependents(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, else hvprm.db)")
	cmd.Flags().Int64Var(&opts.ID, "id", 0, "library id")
	cmd.Flags().StringVar(&opts.Title, "title", "", "library title (requires --version)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "library version as major.minor.patch")

	return cmd
}

func runDependents(opts *DependentsOptions, cmd *cobra.Command) error {
	logger := opts.logger()
	formatter := opts.formatter(cmd)

	st, err := openExistingStore(opts.databasePath(opts.Database))
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := cmd.Context()
	id := removal.Identity{ID: opts.ID, Title: opts.Title, Version: opts.Version}

	lib, err := removal.NewResolver(st).Resolve(ctx, id)
	if err != nil {
		_ = formatter.Error(string(removal.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitFailure, "library resolution failed", err)
	}

	dependents, err := removal.NewInspector(st, st).FindDependents(ctx, lib)
	if err != nil {
		return WrapExitError(ExitFailure, "dependency inspection failed", err)
	}
	logger.Debug("dependents inspected", "library_id", lib.ID, "count", len(dependents))

	return formatter.Success(DependentsResult{Library: lib, Dependents: dependents})
}
