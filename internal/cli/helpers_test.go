package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hvprm/internal/fixture"
	"github.com/roach88/hvprm/internal/store"
)

// seedDatabase applies testdata/fixtures/<name>.yaml to a fresh database
// and returns its path.
func seedDatabase(t *testing.T, name string) string {
	t.Helper()
	f, err := fixture.Load(filepath.Join("testdata", "fixtures", name+".yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hvp.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = f.Apply(context.Background(), st)
	require.NoError(t, err)
	return path
}

// runCLI executes the root command with args and returns stdout.
// Logs are discarded.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// openTestStore opens path for assertions after a command ran.
func openTestStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
