package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/hvprm/internal/removal"
)

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Database string
	ID       int64
	Title    string
	Version  string
	Run      bool
	Force    bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs removal.RunIDGenerator
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a library and the activities using it",
		Long: `Remove an installed library.

The library is selected by --id, or by --title and --version together.
Libraries that depend on it are listed first; if there are any the removal
is refused unless --force is given. Activities using the library as their
main library are deleted before the library itself.

Nothing is modified unless --run is given.

Exit codes:
  0 - Removal previewed or committed
  1 - Removal refused or failed
  2 - Command error (bad flags, database not found, etc.)

Examples:
  hvprm remove --db moodle.db --id 12
  hvprm remove --db moodle.db --title "Interactive Video" --version 1.21.3 --run
  hvprm remove --db moodle.db --id 12 -r -f`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, else hvprm.db)")
	cmd.Flags().Int64Var(&opts.ID, "id", 0, "library id")
	cmd.Flags().StringVar(&opts.Title, "title", "", "library title (requires --version)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "library version as major.minor.patch")
	cmd.Flags().BoolVarP(&opts.Run, "run", "r", false, "commit changes")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "delete even if other libraries depend on it or some activities fail")

	return cmd
}

func runRemove(opts *RemoveOptions, cmd *cobra.Command) error {
	logger := opts.logger()
	formatter := opts.formatter(cmd)

	st, err := openExistingStore(opts.databasePath(opts.Database))
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	wf := removal.NewWorkflow(st, removal.CLIWording, opts.RunIDs).WithLogger(logger)
	id := removal.Identity{ID: opts.ID, Title: opts.Title, Version: opts.Version}
	res := wf.Execute(cmd.Context(), id, removal.Options{Run: opts.Run, Force: opts.Force})

	if err := writeResult(formatter, res); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if !res.Success {
		return WrapExitError(ExitFailure, "library removal failed", res.Err)
	}
	return nil
}

// writeResult renders a workflow result: the status lines as text, or the
// whole result as a JSON response.
func writeResult(f *OutputFormatter, res *removal.Result) error {
	if f.Format != "json" {
		f.Lines(res.Messages)
		return nil
	}

	if res.Success {
		return f.Success(res)
	}

	code := string(removal.CodeOf(res.Err))
	if code == "" {
		code = string(removal.StateFailed)
	}
	message := ""
	if res.Err != nil {
		message = res.Err.Error()
	}
	return f.Error(code, message, res)
}
