// Package store provides the SQLite-backed record store for hvprm.
//
// The store holds the four tables the removal workflow reads and mutates:
//   - hvp_libraries: Installed libraries
//   - hvp_libraries_libraries: Dependency edges (dependent -> required)
//   - hvp: Activities, each with one main library
//   - course_modules: Course linkage for each activity
//
// Besides plain reads it implements the collaborators the removal workflow
// consumes: LibraryUsage (usage summary), DeleteModule (one activity and
// its course module) and DeleteLibrary (library row plus its own edges).
// Each mutating primitive runs in its own transaction; no transaction spans
// more than one primitive.
//
// # Deterministic Query Results
//
// Every multi-row query is ordered by primary key ascending so reports are
// reproducible for a fixed database state.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
