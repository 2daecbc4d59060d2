package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/grouptalk"
	projectConfigDir = ".grouptalk"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user, and project settings.
func LoadConfig() (Config, error) {
	cfg := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if cfg, err = overlayFile(cfg, userConfigPath); err != nil {
		return Config{}, err
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if cfg, err = overlayFile(cfg, projectConfigPath); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with a single explicit file.
func LoadFile(path string) (Config, error) {
	cfg, err := overlayFile(GetDefaultConfig(), path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFile(base Config, path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.User.ID != "" {
		merged.User.ID = overlay.User.ID
	}
	if overlay.User.Nickname != "" {
		merged.User.Nickname = overlay.User.Nickname
	}
	if overlay.Backend.Mode != "" {
		merged.Backend.Mode = overlay.Backend.Mode
	}
	if overlay.Backend.ServerURL != "" {
		merged.Backend.ServerURL = overlay.Backend.ServerURL
	}
	if overlay.Server.ListenAddr != "" {
		merged.Server.ListenAddr = overlay.Server.ListenAddr
	}
	if overlay.Badge.MaxCount != 0 {
		merged.Badge.MaxCount = overlay.Badge.MaxCount
	}
	if overlay.Badge.OverflowLabel != "" {
		merged.Badge.OverflowLabel = overlay.Badge.OverflowLabel
	}
	if overlay.Theme.Dark != nil {
		merged.Theme.Dark = overlay.Theme.Dark
	}
	if overlay.Tabs.ChannelsTitle != "" {
		merged.Tabs.ChannelsTitle = overlay.Tabs.ChannelsTitle
	}
	if overlay.Tabs.SettingsTitle != "" {
		merged.Tabs.SettingsTitle = overlay.Tabs.SettingsTitle
	}
	if overlay.Simulator.Enabled != nil {
		merged.Simulator.Enabled = overlay.Simulator.Enabled
	}
	if overlay.Simulator.Interval != 0 {
		merged.Simulator.Interval = overlay.Simulator.Interval
	}
	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}
	return merged
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if c.User.ID == "" {
		return fmt.Errorf("user.id must not be empty")
	}
	switch c.Backend.Mode {
	case BackendMemory:
	case BackendRemote:
		if c.Backend.ServerURL == "" {
			return fmt.Errorf("backend.serverURL is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown backend.mode %q (want %q or %q)", c.Backend.Mode, BackendMemory, BackendRemote)
	}
	if c.Badge.MaxCount < 0 {
		return fmt.Errorf("badge.maxCount must not be negative")
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
