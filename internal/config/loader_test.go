package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockConfigPaths points the loader at files inside dir for the duration of the test.
func mockConfigPaths(t *testing.T, dir string) (userPath, projectPath string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	userPath = filepath.Join(dir, "user.yaml")
	projectPath = filepath.Join(dir, "project.yaml")
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
	return userPath, projectPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	mockConfigPaths(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.True(t, cfg.Theme.IsDark())
	assert.True(t, cfg.Simulator.IsEnabled())
}

func TestLoadConfig_UserThenProjectOverride(t *testing.T) {
	userPath, projectPath := mockConfigPaths(t, t.TempDir())

	writeFile(t, userPath, `
user:
  id: alice
  nickname: Alice
badge:
  overflowLabel: "lots"
theme:
  dark: false
`)
	writeFile(t, projectPath, `
backend:
  mode: remote
  serverURL: http://chat.example:9000
badge:
  maxCount: 9
simulator:
  enabled: false
  interval: 2s
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User.ID)
	assert.Equal(t, "Alice", cfg.User.Nickname)
	assert.Equal(t, BackendRemote, cfg.Backend.Mode)
	assert.Equal(t, "http://chat.example:9000", cfg.Backend.ServerURL)
	assert.Equal(t, 9, cfg.Badge.MaxCount)
	assert.Equal(t, "lots", cfg.Badge.OverflowLabel)
	assert.False(t, cfg.Theme.IsDark())
	assert.False(t, cfg.Simulator.IsEnabled())
	assert.Equal(t, 2*time.Second, cfg.Simulator.Interval)
	// Untouched values keep their defaults.
	assert.Equal(t, "Channels", cfg.Tabs.ChannelsTitle)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	userPath, _ := mockConfigPaths(t, t.TempDir())
	writeFile(t, userPath, "user: [unclosed")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user.yaml")
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, projectPath := mockConfigPaths(t, t.TempDir())
	writeFile(t, projectPath, "backend:\n  mode: carrier-pigeon\n")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown backend.mode")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "logLevel: debug\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty user", func(c *Config) { c.User.ID = "" }, "user.id"},
		{"remote without url", func(c *Config) {
			c.Backend.Mode = BackendRemote
			c.Backend.ServerURL = ""
		}, "serverURL"},
		{"negative badge", func(c *Config) { c.Badge.MaxCount = -1 }, "maxCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetUserConfigDir(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()
	osUserHomeDir = func() (string, error) { return "/home/test", nil }

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/test", ".config/grouptalk"), dir)
}
