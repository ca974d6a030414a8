package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/hvprm/internal/ir"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected failure")

// MemStore is an in-memory implementation of every collaborator the
// removal workflow consumes. It records mutating calls in order and lets
// tests inject failures per activity or for library deletion.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type MemStore struct {
	mu         sync.Mutex
	nextID     int64
	libraries  map[int64]ir.Library
	edges      []ir.DependencyEdge
	activities map[int64]ir.Activity

	// Usage overrides the usage collaborator answer per library id, to
	// simulate it disagreeing with the edge table.
	Usage map[int64]ir.LibraryUsage

	// FailDeleteModule makes DeleteModule fail for the given activity ids.
	FailDeleteModule map[int64]error

	// FailDeleteLibrary makes DeleteLibrary fail when non-nil.
	FailDeleteLibrary error

	// Calls records mutating calls as "DeleteModule(7)" / "DeleteLibrary(3)".
	Calls []string
}

// NewMemStore creates an empty store. Ids start at 1.
func NewMemStore() *MemStore {
	return &MemStore{
		libraries:        make(map[int64]ir.Library),
		activities:       make(map[int64]ir.Activity),
		Usage:            make(map[int64]ir.LibraryUsage),
		FailDeleteModule: make(map[int64]error),
	}
}

func (m *MemStore) allocID() int64 {
	m.nextID++
	return m.nextID
}

// AddLibrary stores lib under a fresh id and returns it.
func (m *MemStore) AddLibrary(lib ir.Library) ir.Library {
	m.mu.Lock()
	defer m.mu.Unlock()
	lib.ID = m.allocID()
	lib.Title = ir.NormalizeTitle(lib.Title)
	m.libraries[lib.ID] = lib
	return lib
}

// AddDependency records that dependent requires required (preloaded).
func (m *MemStore) AddDependency(dependent, required int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, ir.DependencyEdge{
		LibraryID:         dependent,
		RequiredLibraryID: required,
		Type:              ir.DependencyPreloaded,
	})
}

// AddActivity stores an activity using libraryID as main library.
func (m *MemStore) AddActivity(libraryID int64, name string) ir.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := ir.Activity{
		ID:            m.allocID(),
		CourseID:      1,
		Name:          name,
		MainLibraryID: libraryID,
	}
	a.CourseModuleID = a.ID
	m.activities[a.ID] = a
	return a
}

// HasLibrary reports whether a library with id exists.
func (m *MemStore) HasLibrary(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.libraries[id]
	return ok
}

// ActivityCount returns the number of stored activities.
func (m *MemStore) ActivityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.activities)
}

// FindLibraries implements removal.LibraryFinder.
func (m *MemStore) FindLibraries(_ context.Context, filter ir.LibraryFilter) ([]ir.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []ir.Library{}
	for _, lib := range m.libraries {
		switch {
		case filter.ID != 0:
			if lib.ID != filter.ID {
				continue
			}
		case filter.Title != "":
			if lib.Title != ir.NormalizeTitle(filter.Title) || lib.Version != filter.Version {
				continue
			}
		default:
			continue
		}
		out = append(out, lib)
	}
	sortLibraries(out)
	return out, nil
}

// LibraryUsage implements removal.UsageReader. Only dependents that still
// exist are reported, unless Usage overrides the answer.
func (m *MemStore) LibraryUsage(_ context.Context, libraryID int64) (ir.LibraryUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.Usage[libraryID]; ok {
		return u, nil
	}

	usage := ir.LibraryUsage{Libraries: []int64{}}
	for _, a := range m.activities {
		if a.MainLibraryID == libraryID {
			usage.Content++
		}
	}
	seen := make(map[int64]bool)
	for _, e := range m.edges {
		if e.RequiredLibraryID != libraryID || seen[e.LibraryID] {
			continue
		}
		if _, ok := m.libraries[e.LibraryID]; !ok {
			continue
		}
		seen[e.LibraryID] = true
		usage.Libraries = append(usage.Libraries, e.LibraryID)
	}
	sortIDs(usage.Libraries)
	return usage, nil
}

// DependentLibraryIDs implements removal.DependencyReader.
func (m *MemStore) DependentLibraryIDs(_ context.Context, requiredID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := []int64{}
	seen := make(map[int64]bool)
	for _, e := range m.edges {
		if e.RequiredLibraryID == requiredID && !seen[e.LibraryID] {
			seen[e.LibraryID] = true
			ids = append(ids, e.LibraryID)
		}
	}
	sortIDs(ids)
	return ids, nil
}

// LibrariesByIDs implements removal.DependencyReader.
func (m *MemStore) LibrariesByIDs(_ context.Context, ids []int64) ([]ir.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []ir.Library{}
	for _, id := range ids {
		if lib, ok := m.libraries[id]; ok {
			out = append(out, lib)
		}
	}
	sortLibraries(out)
	return out, nil
}

// ActivitiesByMainLibrary implements removal.ActivityLister.
func (m *MemStore) ActivitiesByMainLibrary(_ context.Context, libraryID int64) ([]ir.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []ir.Activity{}
	for _, a := range m.activities {
		if a.MainLibraryID == libraryID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteModule implements removal.ModuleDeleter.
func (m *MemStore) DeleteModule(_ context.Context, activityID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("DeleteModule(%d)", activityID))
	if err, ok := m.FailDeleteModule[activityID]; ok {
		if err == nil {
			err = ErrInjected
		}
		return err
	}
	if _, ok := m.activities[activityID]; !ok {
		return fmt.Errorf("activity %d not found", activityID)
	}
	delete(m.activities, activityID)
	return nil
}

// DeleteLibrary implements removal.LibraryDeleter. The library's own
// dependency edges are removed with it.
func (m *MemStore) DeleteLibrary(_ context.Context, lib ir.Library) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("DeleteLibrary(%d)", lib.ID))
	if m.FailDeleteLibrary != nil {
		return m.FailDeleteLibrary
	}
	if _, ok := m.libraries[lib.ID]; !ok {
		return fmt.Errorf("library %d not found", lib.ID)
	}
	delete(m.libraries, lib.ID)

	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.LibraryID != lib.ID {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	return nil
}

func sortLibraries(libs []ir.Library) {
	sort.Slice(libs, func(i, j int) bool { return libs[i].ID < libs[j].ID })
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
