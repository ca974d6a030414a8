package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hvprm/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "hvprm", cmd.Use)
	assert.Contains(t, cmd.Long, "depend")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"remove", "dependents", "seed", "serve"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestRemoveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	removeCmd, _, err := cmd.Find([]string{"remove"})
	require.NoError(t, err)

	for _, name := range []string{"db", "id", "title", "version"} {
		assert.NotNil(t, removeCmd.Flags().Lookup(name), "flag %s", name)
	}

	runFlag := removeCmd.Flags().Lookup("run")
	require.NotNil(t, runFlag)
	assert.Equal(t, "r", runFlag.Shorthand)
	assert.Equal(t, "false", runFlag.DefValue)

	forceFlag := removeCmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag)
	assert.Equal(t, "f", forceFlag.Shorthand)
	assert.Equal(t, "false", forceFlag.DefValue)
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.NotNil(t, serveCmd.Flags().Lookup("db"))
	assert.NotNil(t, serveCmd.Flags().Lookup("listen"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := runCLI(t, "remove", "--format", "xml", "--id", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestUnknownFlagIsCommandError(t *testing.T) {
	_, err := runCLI(t, "remove", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFileSuppliesDatabase(t *testing.T) {
	dbPath := seedDatabase(t, "unused_library")
	cfgPath := filepath.Join(t.TempDir(), "hvprm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database: "+dbPath+"\nlog_level: error\n"), 0o644))

	out, err := runCLI(t, "remove", "--config", cfgPath, "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0 activities to be deleted.")
}

func TestInvalidConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hvprm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("unknown: true\n"), 0o644))

	_, err := runCLI(t, "remove", "--config", cfgPath, "--id", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestDatabasePath(t *testing.T) {
	opts := &RootOptions{}
	assert.Equal(t, config.DefaultDatabase, opts.databasePath(""))

	opts.Config.Database = "from-config.db"
	assert.Equal(t, "from-config.db", opts.databasePath(""))
	assert.Equal(t, "flag.db", opts.databasePath("flag.db"))
}
