package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seeded.db")

	out, err := runCLI(t, "seed", "--db", dbPath, filepath.Join("testdata", "fixtures", "two_dependents.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, `Seeded fixture "two dependents"`)
	assert.Contains(t, out, "3 libraries, 2 dependencies, 1 activities.")
	assert.Contains(t, out, "id=1  Test library 1.2.3")

	st := openTestStore(t, dbPath)
	ids, err := st.DependentLibraryIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestSeed_InvalidFixture(t *testing.T) {
	_, err := runCLI(t, "seed", "--db", filepath.Join(t.TempDir(), "x.db"), filepath.Join("testdata", "fixtures", "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load fixture")
}

func TestSeed_ConflictIsFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seeded.db")
	fixturePath := filepath.Join("testdata", "fixtures", "unused_library.yaml")

	_, err := runCLI(t, "seed", "--db", dbPath, fixturePath)
	require.NoError(t, err)

	// Same machine name and version again violates the unique constraint.
	_, err = runCLI(t, "seed", "--db", dbPath, fixturePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestSeed_RequiresFixtureArgument(t *testing.T) {
	_, err := runCLI(t, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
