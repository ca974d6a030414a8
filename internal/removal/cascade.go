package removal

import (
	"context"
	"fmt"

	"github.com/roach88/hvprm/internal/ir"
)

// CascadeRemover counts or deletes the activities using a library as their
// main library. It has no force handling: the first failed deletion stops
// the loop and is returned to the caller.
type CascadeRemover struct {
	activities ActivityLister
	modules    ModuleDeleter
}

// NewCascadeRemover creates a remover over the given collaborators.
func NewCascadeRemover(activities ActivityLister, modules ModuleDeleter) *CascadeRemover {
	return &CascadeRemover{activities: activities, modules: modules}
}

// CountOrDeleteActivities returns the number of activities whose main
// library is lib.
//
// With dryRun, or when there is nothing to delete, nothing is mutated.
// Otherwise activities are deleted one at a time in id order; on the first
// failure the remaining ones are left alone and an ErrActivityDeletionFailed
// error is returned together with the number already deleted.
func (c *CascadeRemover) CountOrDeleteActivities(ctx context.Context, lib ir.Library, dryRun bool) (int, error) {
	activities, err := c.activities.ActivitiesByMainLibrary(ctx, lib.ID)
	if err != nil {
		return 0, fmt.Errorf("list activities: %w", err)
	}

	if dryRun || len(activities) == 0 {
		return len(activities), nil
	}

	for deleted, a := range activities {
		if err := ctx.Err(); err != nil {
			return deleted, NewActivityDeletionError(deleted, a.ID, err)
		}
		if err := c.modules.DeleteModule(ctx, a.ID); err != nil {
			return deleted, NewActivityDeletionError(deleted, a.ID, err)
		}
	}

	return len(activities), nil
}
