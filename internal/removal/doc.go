// Package removal implements the safe removal workflow for shared libraries.
//
// A removal runs three components in a fixed order:
//
//  1. Resolver: maps an Identity (id, or title + version) to exactly one library.
//  2. Inspector: lists the libraries that declare it as a dependency.
//  3. CascadeRemover: counts, or deletes one by one, the activities using it
//     as main library.
//
// Workflow binds them into the check -> delete activities -> delete library
// protocol. Dependents are reported before anything is mutated, activities
// are removed before the library row, and a preview (Run=false) never
// mutates on any path. Force downgrades a dependency conflict or a partial
// activity deletion failure to a warning.
//
// The workflow is synchronous and is not wrapped in a transaction. Each
// collaborator call is expected to be atomic on its own; a crash between
// activity deletion and library deletion is recovered by running again.
//
// All collaborators are injected as small interfaces so the workflow runs
// against the SQLite store in production and against in-memory fakes in
// tests.
package removal
