package config

import "time"

// Backend modes.
const (
	BackendMemory = "memory"
	BackendRemote = "remote"
)

// Config is the top-level configuration structure for grouptalk.
type Config struct {
	User      UserConfig      `yaml:"user"`
	Backend   BackendConfig   `yaml:"backend"`
	Server    ServerConfig    `yaml:"server"`
	Badge     BadgeConfig     `yaml:"badge"`
	Theme     ThemeConfig     `yaml:"theme"`
	Tabs      TabsConfig      `yaml:"tabs"`
	Simulator SimulatorConfig `yaml:"simulator"`
	LogLevel  string          `yaml:"logLevel,omitempty"`
}

// UserConfig identifies the signed-in user.
type UserConfig struct {
	ID       string `yaml:"id"`
	Nickname string `yaml:"nickname,omitempty"`
}

// BackendConfig selects where chat data comes from.
type BackendConfig struct {
	Mode      string `yaml:"mode"`
	ServerURL string `yaml:"serverURL,omitempty"`
}

// ServerConfig configures `grouptalk serve`.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// BadgeConfig configures the unread badge.
type BadgeConfig struct {
	MaxCount      int    `yaml:"maxCount"`
	OverflowLabel string `yaml:"overflowLabel"`
}

// ThemeConfig holds display preferences.
type ThemeConfig struct {
	Dark *bool `yaml:"dark,omitempty"`
}

// IsDark reports whether the dark theme is selected. Unset means dark.
func (t ThemeConfig) IsDark() bool {
	return t.Dark == nil || *t.Dark
}

// TabsConfig holds the tab titles.
type TabsConfig struct {
	ChannelsTitle string `yaml:"channelsTitle"`
	SettingsTitle string `yaml:"settingsTitle"`
}

// SimulatorConfig drives the demo traffic generator.
type SimulatorConfig struct {
	Enabled  *bool         `yaml:"enabled,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// IsEnabled reports whether the simulator should run. Unset means enabled.
func (s SimulatorConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}
