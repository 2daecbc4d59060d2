package app

import (
	"grouptalk/internal/config"
	"grouptalk/internal/redirect"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// ConfigPath overrides the layered configuration with a single file.
	ConfigPath string

	// Backend and ServerURL override the loaded backend settings when set.
	Backend   string
	ServerURL string

	// Launch signal for the chat screen
	RedirectChannel     string
	LaunchedFromHistory bool

	// Version is reported by the MCP server.
	Version string

	// Chat is the loaded configuration. Nil until NewApplication runs.
	Chat *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// LaunchSignal builds the activation signal the chat screen starts with.
func (c *Config) LaunchSignal() *redirect.Signal {
	var flags redirect.Flag
	if c.LaunchedFromHistory {
		flags |= redirect.FlagLaunchedFromHistory
	}
	sig := redirect.NewSignal(flags)
	if c.RedirectChannel != "" {
		sig.SetRedirect(c.RedirectChannel)
	}
	return sig
}

// applyOverrides copies command line overrides onto the loaded config.
func (c *Config) applyOverrides(cfg config.Config) config.Config {
	if c.Backend != "" {
		cfg.Backend.Mode = c.Backend
	}
	if c.ServerURL != "" {
		cfg.Backend.ServerURL = c.ServerURL
		if c.Backend == "" {
			cfg.Backend.Mode = config.BackendRemote
		}
	}
	if c.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
