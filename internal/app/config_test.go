package app

import (
	"testing"

	"grouptalk/internal/config"
	"grouptalk/internal/redirect"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		configPath string
	}{
		{
			name:       "full configuration",
			debug:      true,
			configPath: "/tmp/grouptalk.yaml",
		},
		{
			name: "minimal configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.debug, tt.configPath)

			assert.Equal(t, tt.debug, cfg.Debug)
			assert.Equal(t, tt.configPath, cfg.ConfigPath)
			assert.Nil(t, cfg.Chat, "Chat should be nil before loading")
		})
	}
}

func TestConfig_LaunchSignal(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantTarget  string
		wantHas     bool
		wantHistory bool
	}{
		{
			name: "plain launch",
		},
		{
			name:       "redirect",
			cfg:        Config{RedirectChannel: "general"},
			wantTarget: "general",
			wantHas:    true,
		},
		{
			name:        "from history",
			cfg:         Config{RedirectChannel: "general", LaunchedFromHistory: true},
			wantTarget:  "general",
			wantHas:     true,
			wantHistory: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := tt.cfg.LaunchSignal()
			target, has := sig.Redirect()
			assert.Equal(t, tt.wantHas, has)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantHistory, sig.HasFlag(redirect.FlagLaunchedFromHistory))
		})
	}
}

func TestConfig_ApplyOverrides(t *testing.T) {
	base := config.GetDefaultConfig()

	t.Run("no overrides", func(t *testing.T) {
		got := (&Config{}).applyOverrides(base)
		assert.Equal(t, base, got)
	})

	t.Run("server url implies remote", func(t *testing.T) {
		got := (&Config{ServerURL: "http://chat.example:9000"}).applyOverrides(base)
		assert.Equal(t, config.BackendRemote, got.Backend.Mode)
		assert.Equal(t, "http://chat.example:9000", got.Backend.ServerURL)
	})

	t.Run("explicit backend wins", func(t *testing.T) {
		got := (&Config{Backend: config.BackendMemory, ServerURL: "http://x"}).applyOverrides(base)
		assert.Equal(t, config.BackendMemory, got.Backend.Mode)
	})

	t.Run("debug raises log level", func(t *testing.T) {
		got := (&Config{Debug: true}).applyOverrides(base)
		assert.Equal(t, "debug", got.LogLevel)
	})
}
