package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs rootCmd with args and returns what it printed.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
		unreadServerURL = ""
		if f := rootCmd.Flags().Lookup("version"); f != nil {
			_ = f.Value.Set("false")
		}
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_VersionFlagUsesTemplate(t *testing.T) {
	originalVersion := rootCmd.Version
	defer SetVersion(originalVersion)
	SetVersion("1.4.2")

	out, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "grouptalk version 1.4.2\n", out)
}

func TestRootCommand_Subcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"chat", "serve", "unread", "mcp", "version", "self-update"} {
		assert.True(t, found[name], "missing subcommand %s", name)
	}
	assert.True(t, rootCmd.SilenceUsage)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestVersionCommand(t *testing.T) {
	originalVersion := rootCmd.Version
	defer SetVersion(originalVersion)
	SetVersion("2.0.0")

	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "grouptalk version 2.0.0\n", out)
}

func TestUnreadCommand_PrintsCountAndBadge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
badge:
  maxCount: 3
  overflowLabel: "3+"
simulator:
  enabled: false
`), 0o600))

	out, err := executeRoot(t, "unread", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "5 unread (badge: 3+)\n")
}

func TestUnreadCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  mode: carrier-pigeon\n"), 0o600))

	_, err := executeRoot(t, "unread", "--config", path)
	assert.ErrorContains(t, err, "unknown backend.mode")
}
