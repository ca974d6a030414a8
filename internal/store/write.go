package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hvprm/internal/ir"
)

// moduleName is the course_modules.module value for activities.
const moduleName = "hvp"

// InsertLibrary inserts a library record and returns its new id.
// The title is NFC normalized before it is stored; lib.ID is ignored.
func (s *Store) InsertLibrary(ctx context.Context, lib ir.Library) (int64, error) {
	runnable := 0
	if lib.Runnable {
		runnable = 1
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO hvp_libraries
		(machine_name, title, major_version, minor_version, patch_version,
		 runnable, preloaded_js, preloaded_css, semantics, tutorial_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		lib.MachineName,
		ir.NormalizeTitle(lib.Title),
		lib.Version.Major,
		lib.Version.Minor,
		lib.Version.Patch,
		runnable,
		lib.PreloadedJS,
		lib.PreloadedCSS,
		lib.Semantics,
		lib.TutorialURL,
	)
	if err != nil {
		return 0, fmt.Errorf("insert library: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert library: last insert id: %w", err)
	}
	return id, nil
}

// InsertDependency records that edge.LibraryID requires edge.RequiredLibraryID.
// Uses ON CONFLICT DO NOTHING for idempotency - re-declaring an edge is a no-op.
func (s *Store) InsertDependency(ctx context.Context, edge ir.DependencyEdge) error {
	if !ir.ValidDependencyTypes[edge.Type] {
		return fmt.Errorf("insert dependency: invalid dependency type %q", edge.Type)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hvp_libraries_libraries
		(library_id, required_library_id, dependency_type)
		VALUES (?, ?, ?)
		ON CONFLICT(library_id, required_library_id) DO NOTHING
	`, edge.LibraryID, edge.RequiredLibraryID, string(edge.Type))
	if err != nil {
		return fmt.Errorf("insert dependency: %w", err)
	}
	return nil
}

// InsertActivity inserts an activity together with its course module and
// returns the activity with ID and CourseModuleID filled in.
func (s *Store) InsertActivity(ctx context.Context, a ir.Activity) (ir.Activity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.Activity{}, fmt.Errorf("insert activity: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO hvp (course, name, main_library_id)
		VALUES (?, ?, ?)
	`, a.CourseID, a.Name, a.MainLibraryID)
	if err != nil {
		return ir.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	if a.ID, err = result.LastInsertId(); err != nil {
		return ir.Activity{}, fmt.Errorf("insert activity: last insert id: %w", err)
	}

	result, err = tx.ExecContext(ctx, `
		INSERT INTO course_modules (course, module, instance)
		VALUES (?, ?, ?)
	`, a.CourseID, moduleName, a.ID)
	if err != nil {
		return ir.Activity{}, fmt.Errorf("insert course module: %w", err)
	}
	if a.CourseModuleID, err = result.LastInsertId(); err != nil {
		return ir.Activity{}, fmt.Errorf("insert course module: last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ir.Activity{}, fmt.Errorf("insert activity: commit: %w", err)
	}
	return a, nil
}

// DeleteModule removes one activity and its course module in a single
// transaction. The course module is resolved from the activity id first;
// an activity without a course module cannot be deleted and yields an
// ErrNotFound-wrapped error, leaving the activity in place.
func (s *Store) DeleteModule(ctx context.Context, activityID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete module: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var cmID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM course_modules WHERE module = ? AND instance = ?
	`, moduleName, activityID).Scan(&cmID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("delete module: course module for activity %d: %w", activityID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete module: lookup course module: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_modules WHERE id = ?`, cmID); err != nil {
		return fmt.Errorf("delete module: course module %d: %w", cmID, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM hvp WHERE id = ?`, activityID)
	if err != nil {
		return fmt.Errorf("delete module: activity %d: %w", activityID, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("delete module: rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("delete module: activity %d: %w", activityID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete module: commit: %w", err)
	}
	return nil
}

// DeleteLibrary removes a library row and the dependency edges it declares,
// atomically. Edges from other libraries that require it are left untouched
// and activities are not checked; callers remove dependent activities first.
// Returns an ErrNotFound-wrapped error if the library is already gone.
func (s *Store) DeleteLibrary(ctx context.Context, lib ir.Library) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete library: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM hvp_libraries_libraries WHERE library_id = ?
	`, lib.ID); err != nil {
		return fmt.Errorf("delete library: dependencies: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM hvp_libraries WHERE id = ?`, lib.ID)
	if err != nil {
		return fmt.Errorf("delete library: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete library: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete library %d: %w", lib.ID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete library: commit: %w", err)
	}
	return nil
}
