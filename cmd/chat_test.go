package cmd

import (
	"testing"

	"grouptalk/internal/redirect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetChatFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range []string{"debug", "backend", "server", "redirect-channel", "launched-from-history"} {
			f := chatCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
}

func TestChatFlags_LaunchSignal(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantTarget  string
		wantHistory bool
	}{
		{
			name: "plain launch",
		},
		{
			name:       "redirect",
			args:       []string{"--redirect-channel", "support"},
			wantTarget: "support",
		},
		{
			name:        "relaunch from history",
			args:        []string{"--redirect-channel", "support", "--launched-from-history"},
			wantTarget:  "support",
			wantHistory: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetChatFlags(t)
			require.NoError(t, chatCmd.Flags().Parse(tt.args))

			sig := newChatConfig().LaunchSignal()
			target, has := sig.Redirect()
			assert.Equal(t, tt.wantTarget != "", has)
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantHistory, sig.HasFlag(redirect.FlagLaunchedFromHistory))
		})
	}
}

func TestChatFlags_BackendOverrides(t *testing.T) {
	resetChatFlags(t)
	require.NoError(t, chatCmd.Flags().Parse([]string{"--server", "http://chat.example:9000", "--debug"}))

	cfg := newChatConfig()
	assert.Equal(t, "http://chat.example:9000", cfg.ServerURL)
	assert.Empty(t, cfg.Backend)
	assert.True(t, cfg.Debug)
}

func TestMCPCommand_HelpListsTools(t *testing.T) {
	for _, tool := range []string{"get_unread_count", "list_channels", "list_messages", "send_message", "mark_as_read"} {
		assert.Contains(t, mcpCmd.Long, tool)
	}
}
