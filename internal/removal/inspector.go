package removal

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/hvprm/internal/ir"
)

// Inspector finds the libraries that depend on a library.
//
// Two independent sources are consulted and merged by distinct dependent
// id: the usage collaborator and the raw dependency edge relation. Either
// may know about a dependent the other misses.
type Inspector struct {
	usage UsageReader
	deps  DependencyReader
}

// NewInspector creates an inspector over the given collaborators.
func NewInspector(usage UsageReader, deps DependencyReader) *Inspector {
	return &Inspector{usage: usage, deps: deps}
}

// FindDependents returns "Title major.minor.patch" labels of every library
// that declares lib as a dependency, ordered by dependent id.
//
// A library that is unknown or has no dependents yields an empty slice,
// never an error. Ids without a library record are dropped.
func (i *Inspector) FindDependents(ctx context.Context, lib ir.Library) ([]string, error) {
	usage, err := i.usage.LibraryUsage(ctx, lib.ID)
	if err != nil {
		return nil, fmt.Errorf("library usage: %w", err)
	}

	edgeIDs, err := i.deps.DependentLibraryIDs(ctx, lib.ID)
	if err != nil {
		return nil, fmt.Errorf("dependency edges: %w", err)
	}

	ids := mergeIDs(lib.ID, usage.Libraries, edgeIDs)
	if len(ids) == 0 {
		return []string{}, nil
	}

	dependents, err := i.deps.LibrariesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("dependent libraries: %w", err)
	}
	sort.Slice(dependents, func(a, b int) bool { return dependents[a].ID < dependents[b].ID })

	labels := make([]string, 0, len(dependents))
	for _, dep := range dependents {
		labels = append(labels, dep.Label())
	}
	return labels, nil
}

// mergeIDs returns the sorted distinct union of the id sets, excluding self.
func mergeIDs(self int64, sets ...[]int64) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, set := range sets {
		for _, id := range set {
			if id == self || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
