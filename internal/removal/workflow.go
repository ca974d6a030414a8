package removal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/hvprm/internal/ir"
)

// State is a step of the removal protocol.
type State string

const (
	StateResolveFailed            State = "RESOLVE_FAILED"
	StateResolved                 State = "RESOLVED"
	StateInspected                State = "INSPECTED"
	StateAborted                  State = "ABORTED"
	StateWarned                   State = "WARNED"
	StateActivitiesCounted        State = "COUNTED_ACTIVITIES"
	StateActivitiesDeleted        State = "DELETED_ACTIVITIES"
	StateAbortedOnActivityFailure State = "ABORTED_ON_ACTIVITY_FAILURE"
	StateLibraryDeleted           State = "LIBRARY_DELETED"
	StateReportedOnly             State = "REPORTED_ONLY"
	StateFailed                   State = "FAILED"
)

// IsTerminal reports whether no further transition follows s.
func (s State) IsTerminal() bool {
	switch s {
	case StateResolveFailed, StateAborted, StateAbortedOnActivityFailure,
		StateLibraryDeleted, StateReportedOnly, StateFailed:
		return true
	}
	return false
}

// FailurePolicy decides what happens after an activity deletion fails.
type FailurePolicy int

const (
	// StopOnError aborts the workflow; the library is not deleted.
	StopOnError FailurePolicy = iota
	// ContinueOnError reports the failure and goes on to delete the library.
	ContinueOnError
)

// String returns the policy name.
func (p FailurePolicy) String() string {
	if p == ContinueOnError {
		return "continue_on_error"
	}
	return "stop_on_error"
}

// Options are the caller-level policies of one run.
type Options struct {
	// Run commits changes. When false the workflow only reports.
	Run bool
	// Force proceeds past dependents and past activity deletion failures.
	Force bool
}

// FailurePolicy returns the activity failure policy implied by Force.
func (o Options) FailurePolicy() FailurePolicy {
	if o.Force {
		return ContinueOnError
	}
	return StopOnError
}

// Wording holds the front-end specific hints appended to messages.
type Wording struct {
	// CommitHint tells the operator how to commit a preview.
	CommitHint string
	// ForceHint tells the operator how to override a dependency conflict.
	ForceHint string
}

// CLIWording is used by command line front ends.
var CLIWording = Wording{
	CommitHint: "Use option --run to commit changes.",
	ForceHint:  "Use --force to delete the library, leaving orphaned dependencies that may break the library tree.",
}

// WebWording is used by the HTTP front end.
var WebWording = Wording{
	CommitHint: "Use parameter 'run=true' to commit changes.",
	ForceHint:  "Use parameter 'force=true' to delete the library, leaving orphaned dependencies that may break the library tree.",
}

// Plan is the ephemeral removal plan computed by one run. It is never stored.
type Plan struct {
	Library       ir.Library `json:"library"`
	Dependents    []string   `json:"dependents"`
	ActivityCount int        `json:"activity_count"`
	Executed      bool       `json:"executed"`
}

// Result is the outcome of one run: ordered human-readable status lines and
// a pass/fail signal. Err holds the error that ended an unsuccessful run,
// or the forced activity failure on a successful one.
type Result struct {
	RunID    string   `json:"run_id"`
	Messages []string `json:"messages"`
	Success  bool     `json:"success"`
	State    State    `json:"state"`
	Plan     *Plan    `json:"plan,omitempty"`
	Err      error    `json:"-"`
}

func (r *Result) say(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// Workflow runs the resolve -> inspect -> cascade -> delete protocol.
type Workflow struct {
	resolver  *Resolver
	inspector *Inspector
	cascade   *CascadeRemover
	libraries LibraryDeleter
	wording   Wording
	runIDs    RunIDGenerator
	logger    *slog.Logger
}

// NewWorkflow creates a workflow over st. If runIDs is nil, run ids are
// UUIDv7. Logging goes to slog.Default().
func NewWorkflow(st Store, wording Wording, runIDs RunIDGenerator) *Workflow {
	if runIDs == nil {
		runIDs = UUIDv7Generator{}
	}
	return &Workflow{
		resolver:  NewResolver(st),
		inspector: NewInspector(st, st),
		cascade:   NewCascadeRemover(st, st),
		libraries: st,
		wording:   wording,
		runIDs:    runIDs,
		logger:    slog.Default(),
	}
}

// WithLogger returns the workflow logging to logger.
func (w *Workflow) WithLogger(logger *slog.Logger) *Workflow {
	w.logger = logger
	return w
}

// Execute plans and, when opts.Run is set, executes the removal of the
// library selected by id.
//
// Success is true only when every required step completed without an
// unforced abort. Dependents are always computed before anything is
// mutated, and activities are always removed before the library.
func (w *Workflow) Execute(ctx context.Context, id Identity, opts Options) *Result {
	res := &Result{RunID: w.runIDs.Generate(), Messages: []string{}}
	logger := w.logger.With("run_id", res.RunID)
	logger.Info("removal started", "identity", id.String(), "run", opts.Run, "force", opts.Force)

	// 1. Resolve.
	lib, err := w.resolver.Resolve(ctx, id)
	if err != nil {
		logger.Warn("library resolution failed", "error", err)
		res.State = StateResolveFailed
		if !IsResolutionError(err) {
			res.State = StateFailed
		}
		return w.fail(res, err)
	}
	res.State = StateResolved
	res.Plan = &Plan{Library: lib, Dependents: []string{}}
	logger = logger.With("library_id", lib.ID)
	logger.Debug("library resolved", "library", lib.Label())

	// 2. Inspect dependents before any mutation.
	dependents, err := w.inspector.FindDependents(ctx, lib)
	if err != nil {
		logger.Error("dependency inspection failed", "error", err)
		res.State = StateFailed
		return w.fail(res, err)
	}
	res.Plan.Dependents = dependents
	res.State = StateInspected
	logger.Debug("dependents inspected", "count", len(dependents))

	if len(dependents) > 0 {
		if !opts.Force {
			res.State = StateAborted
			conflict := NewDependencyConflictError(dependents)
			res.say("%s %s", conflict.Message, w.wording.ForceHint)
			res.Err = conflict
			logger.Warn("removal aborted: library has dependents", "dependents", strings.Join(dependents, ","))
			return res
		}
		res.State = StateWarned
		res.say("Library '%s' is a dependency for other libraries: %s. The dependency tree may become inconsistent.",
			lib.Label(), strings.Join(dependents, ","))
		logger.Warn("forcing removal despite dependents", "dependents", strings.Join(dependents, ","))
	}
	res.say("Library '%s' can be deleted.", lib.Label())

	// 3. Count or delete activities.
	count, err := w.cascade.CountOrDeleteActivities(ctx, lib, !opts.Run)
	res.Plan.ActivityCount = count
	if err != nil {
		if !errors.Is(err, ErrActivityDeletionFailed) {
			logger.Error("activity lookup failed", "error", err)
			res.State = StateFailed
			return w.fail(res, err)
		}

		// 4. Activity deletion failure: apply the failure policy.
		switch opts.FailurePolicy() {
		case ContinueOnError:
			res.say("%s", err.Error())
			res.Err = err
			logger.Warn("activity deletion failed, continuing", "deleted", count, "error", err)
		default:
			res.State = StateAbortedOnActivityFailure
			res.say("The library can't be deleted as some activities couldn't be deleted.")
			res.say("%d activities successfully deleted.", count)
			logger.Error("activity deletion failed, library kept", "deleted", count, "error", err)
			return w.fail(res, err)
		}
	}

	if opts.Run {
		res.State = StateActivitiesDeleted
		res.say("%d activities successfully deleted.", count)
	} else {
		res.State = StateActivitiesCounted
		res.say("%d activities to be deleted.", count)
	}
	logger.Info("activities processed", "count", count, "dry_run", !opts.Run)

	// 5. Delete the library, or report that a commit is required.
	if !opts.Run {
		res.State = StateReportedOnly
		res.say("%s", w.wording.CommitHint)
		res.Success = true
		logger.Info("removal previewed")
		return res
	}

	if err := w.libraries.DeleteLibrary(ctx, lib); err != nil {
		logger.Error("library deletion failed", "error", err)
		res.State = StateFailed
		return w.fail(res, fmt.Errorf("delete library: %w", err))
	}
	res.Plan.Executed = true
	res.State = StateLibraryDeleted
	res.Success = true
	res.say("Library '%s' was successfully deleted.", lib.Label())
	logger.Info("library deleted", "library", lib.Label())

	return res
}

// fail records err as the terminal error of res.
func (w *Workflow) fail(res *Result, err error) *Result {
	res.Success = false
	res.Err = err
	res.say("%s", err.Error())
	return res
}
