package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/hvprm/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestLibrary inserts a library with test defaults and returns it
// with its id. machineName must be unique per version within a test.
func createTestLibrary(t *testing.T, s *Store, machineName, title string, v ir.Version) ir.Library {
	t.Helper()
	lib := ir.Library{
		MachineName: machineName,
		Title:       title,
		Version:     v,
		Runnable:    true,
		TutorialURL: "https://tutorialurl.example.com",
	}
	id, err := s.InsertLibrary(context.Background(), lib)
	if err != nil {
		t.Fatalf("InsertLibrary() failed: %v", err)
	}
	lib.ID = id
	return lib
}

// createTestActivity inserts an activity using libraryID as its main library.
func createTestActivity(t *testing.T, s *Store, libraryID int64) ir.Activity {
	t.Helper()
	a, err := s.InsertActivity(context.Background(), ir.Activity{
		CourseID:      1,
		Name:          "Test activity",
		MainLibraryID: libraryID,
	})
	if err != nil {
		t.Fatalf("InsertActivity() failed: %v", err)
	}
	return a
}
