package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/hvprm/internal/ir"
)

const libraryColumns = `id, machine_name, title, major_version, minor_version, patch_version,
	runnable, preloaded_js, preloaded_css, semantics, tutorial_url`

// FindLibraries returns all libraries matching the filter, ordered by id.
// A non-zero filter.ID selects by primary key and ignores title/version.
// An empty filter matches nothing.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) FindLibraries(ctx context.Context, filter ir.LibraryFilter) ([]ir.Library, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch {
	case filter.ID != 0:
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+libraryColumns+`
			FROM hvp_libraries
			WHERE id = ?
			ORDER BY id ASC
		`, filter.ID)
	case filter.Title != "":
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+libraryColumns+`
			FROM hvp_libraries
			WHERE title = ? AND major_version = ? AND minor_version = ? AND patch_version = ?
			ORDER BY id ASC
		`, ir.NormalizeTitle(filter.Title), filter.Version.Major, filter.Version.Minor, filter.Version.Patch)
	default:
		return []ir.Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query libraries: %w", err)
	}
	defer rows.Close()

	return scanLibraries(rows)
}

// ReadLibrary retrieves a single library by ID.
// Returns ErrNotFound if it does not exist.
func (s *Store) ReadLibrary(ctx context.Context, id int64) (ir.Library, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+libraryColumns+`
		FROM hvp_libraries
		WHERE id = ?
	`, id)

	lib, err := scanLibrary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Library{}, fmt.Errorf("library %d: %w", id, ErrNotFound)
	}
	return lib, err
}

// ReadAllLibraries returns every installed library ordered by id.
func (s *Store) ReadAllLibraries(ctx context.Context) ([]ir.Library, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+libraryColumns+`
		FROM hvp_libraries
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all libraries: %w", err)
	}
	defer rows.Close()

	return scanLibraries(rows)
}

// LibrariesByIDs returns the libraries with the given ids, ordered by id.
// Ids without a library row are skipped silently.
func (s *Store) LibrariesByIDs(ctx context.Context, ids []int64) ([]ir.Library, error) {
	if len(ids) == 0 {
		return []ir.Library{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+libraryColumns+`
		FROM hvp_libraries
		WHERE id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query libraries by id: %w", err)
	}
	defer rows.Close()

	return scanLibraries(rows)
}

// DependentLibraryIDs returns the distinct ids of libraries that declare
// requiredID as a dependency, read straight from the edge table.
// Edges whose dependent library no longer exists are still reported.
func (s *Store) DependentLibraryIDs(ctx context.Context, requiredID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT library_id
		FROM hvp_libraries_libraries
		WHERE required_library_id = ?
		ORDER BY library_id ASC
	`, requiredID)
	if err != nil {
		return nil, fmt.Errorf("query dependency edges: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ReadDependencyEdges returns every edge whose dependent is libraryID.
func (s *Store) ReadDependencyEdges(ctx context.Context, libraryID int64) ([]ir.DependencyEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT library_id, required_library_id, dependency_type
		FROM hvp_libraries_libraries
		WHERE library_id = ?
		ORDER BY required_library_id ASC
	`, libraryID)
	if err != nil {
		return nil, fmt.Errorf("query dependency edges: %w", err)
	}
	defer rows.Close()

	edges := []ir.DependencyEdge{}
	for rows.Next() {
		var edge ir.DependencyEdge
		var depType string
		if err := rows.Scan(&edge.LibraryID, &edge.RequiredLibraryID, &depType); err != nil {
			return nil, fmt.Errorf("scan dependency edge: %w", err)
		}
		edge.Type = ir.DependencyType(depType)
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dependency edges: %w", err)
	}

	return edges, nil
}

// LibraryUsage summarises how a library is used: the number of activities
// using it as main library, and the ids of existing libraries that depend
// on it. Unknown libraries yield a zero usage, not an error.
func (s *Store) LibraryUsage(ctx context.Context, libraryID int64) (ir.LibraryUsage, error) {
	usage := ir.LibraryUsage{Libraries: []int64{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM hvp WHERE main_library_id = ?
	`, libraryID).Scan(&usage.Content)
	if err != nil {
		return ir.LibraryUsage{}, fmt.Errorf("count content usage: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ll.library_id
		FROM hvp_libraries_libraries ll
		JOIN hvp_libraries l ON l.id = ll.library_id
		WHERE ll.required_library_id = ?
		ORDER BY ll.library_id ASC
	`, libraryID)
	if err != nil {
		return ir.LibraryUsage{}, fmt.Errorf("query library usage: %w", err)
	}
	defer rows.Close()

	usage.Libraries, err = scanIDs(rows)
	if err != nil {
		return ir.LibraryUsage{}, err
	}

	return usage, nil
}

// ActivitiesByMainLibrary returns activities whose main library is libraryID,
// ordered by id. CourseModuleID is 0 for activities without a course module.
func (s *Store) ActivitiesByMainLibrary(ctx context.Context, libraryID int64) ([]ir.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.course, h.name, h.main_library_id, COALESCE(cm.id, 0)
		FROM hvp h
		LEFT JOIN course_modules cm ON cm.module = ? AND cm.instance = h.id
		WHERE h.main_library_id = ?
		ORDER BY h.id ASC
	`, moduleName, libraryID)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []ir.Activity{}
	for rows.Next() {
		var a ir.Activity
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Name, &a.MainLibraryID, &a.CourseModuleID); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLibrary scans a single library row.
func scanLibrary(row rowScanner) (ir.Library, error) {
	var lib ir.Library
	var runnable int
	err := row.Scan(
		&lib.ID, &lib.MachineName, &lib.Title,
		&lib.Version.Major, &lib.Version.Minor, &lib.Version.Patch,
		&runnable, &lib.PreloadedJS, &lib.PreloadedCSS, &lib.Semantics, &lib.TutorialURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Library{}, err
		}
		return ir.Library{}, fmt.Errorf("scan library: %w", err)
	}
	lib.Runnable = runnable != 0
	return lib, nil
}

// scanLibraries drains rows into a non-nil slice.
func scanLibraries(rows *sql.Rows) ([]ir.Library, error) {
	libraries := []ir.Library{}
	for rows.Next() {
		lib, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		libraries = append(libraries, lib)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate libraries: %w", err)
	}
	return libraries, nil
}

// scanIDs drains a single-column id result into a non-nil slice.
func scanIDs(rows *sql.Rows) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
