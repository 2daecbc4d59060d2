package config

import "time"

// GetDefaultConfig returns the built-in configuration.
func GetDefaultConfig() Config {
	return Config{
		User: UserConfig{
			ID:       "me",
			Nickname: "Me",
		},
		Backend: BackendConfig{
			Mode:      BackendMemory,
			ServerURL: "http://127.0.0.1:8088",
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8088",
		},
		Badge: BadgeConfig{
			MaxCount:      99,
			OverflowLabel: "99+",
		},
		Tabs: TabsConfig{
			ChannelsTitle: "Channels",
			SettingsTitle: "Settings",
		},
		Simulator: SimulatorConfig{
			Interval: 8 * time.Second,
		},
		LogLevel: "info",
	}
}
