package removal

import (
	"context"

	"github.com/roach88/hvprm/internal/ir"
)

// LibraryFinder looks libraries up by id or by title and version.
type LibraryFinder interface {
	FindLibraries(ctx context.Context, filter ir.LibraryFilter) ([]ir.Library, error)
}

// UsageReader is the library-usage collaborator.
type UsageReader interface {
	LibraryUsage(ctx context.Context, libraryID int64) (ir.LibraryUsage, error)
}

// DependencyReader reads the raw dependency edge relation.
type DependencyReader interface {
	DependentLibraryIDs(ctx context.Context, requiredID int64) ([]int64, error)
	LibrariesByIDs(ctx context.Context, ids []int64) ([]ir.Library, error)
}

// ActivityLister enumerates activities by main library.
type ActivityLister interface {
	ActivitiesByMainLibrary(ctx context.Context, libraryID int64) ([]ir.Activity, error)
}

// ModuleDeleter is the course-module deletion collaborator. It removes one
// activity and its course linkage, and may fail.
type ModuleDeleter interface {
	DeleteModule(ctx context.Context, activityID int64) error
}

// LibraryDeleter is the library-graph deletion collaborator.
type LibraryDeleter interface {
	DeleteLibrary(ctx context.Context, lib ir.Library) error
}

// Store bundles every collaborator the workflow consumes.
// *store.Store satisfies it.
type Store interface {
	LibraryFinder
	UsageReader
	DependencyReader
	ActivityLister
	ModuleDeleter
	LibraryDeleter
}
