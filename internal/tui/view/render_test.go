package view

import (
	"testing"
	"time"

	"grouptalk/internal/badge"
	"grouptalk/internal/chat"
	"grouptalk/internal/config"
	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newTestModel() *model.Model {
	m := model.InitializeModel(model.Options{Config: config.GetDefaultConfig()})
	m.Channels = model.NewChannelList(func(string) tea.Cmd { return nil })
	m.CurrentUser = chat.User{ID: "me", Nickname: "Me"}
	m.SetSize(100, 30)
	return m
}

func TestRender_Modes(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *model.Model)
		contains []string
	}{
		{
			name:     "initializing without size",
			setup:    func(m *model.Model) { m.Width, m.Height = 0, 0 },
			contains: []string{"Initializing..."},
		},
		{
			name:     "quitting",
			setup:    func(m *model.Model) { m.CurrentAppMode = model.ModeQuitting; m.QuittingMessage = "Signing off..." },
			contains: []string{"Signing off..."},
		},
		{
			name:     "main screen loading",
			setup:    func(m *model.Model) {},
			contains: []string{"Channels", "Settings", "Loading channels"},
		},
		{
			name: "main screen with badge",
			setup: func(m *model.Model) {
				m.ChannelsLoaded = true
				m.Badge = badge.Render(120)
				m.Channels.SetChannels([]chat.GroupChannel{{URL: "general", Name: "General", MemberCount: 3}})
			},
			contains: []string{"99+", "General", "3 members"},
		},
		{
			name: "empty channel list",
			setup: func(m *model.Model) {
				m.ChannelsLoaded = true
			},
			contains: []string{"No channels yet."},
		},
		{
			name: "settings tab",
			setup: func(m *model.Model) {
				m.ActiveTab = model.TabSettings
				m.UnreadCount = 4
				m.UnreadByCustomType = map[string]int{"support": 1, "": 3}
			},
			contains: []string{"Dark theme", "Focus input when a channel opens", "Total: 4", "support: 1", "(default): 3"},
		},
		{
			name: "channel screen",
			setup: func(m *model.Model) {
				m.Screen = model.ScreenChannel
				m.IsLoading = false
				m.ActiveChannel = chat.GroupChannel{URL: "general", Name: "General", MemberCount: 3}
				m.MessageViewport.SetContent(FormatMessages([]chat.Message{
					{Sender: chat.User{ID: "alice", Nickname: "Alice"}, Text: "hello", CreatedAt: time.Now()},
				}, m.CurrentUser, 80))
			},
			contains: []string{"General", "Alice", "hello"},
		},
		{
			name:     "help overlay",
			setup:    func(m *model.Model) { m.CurrentAppMode = model.ModeHelpOverlay },
			contains: []string{"Keyboard shortcuts", "open notification"},
		},
		{
			name: "log overlay",
			setup: func(m *model.Model) {
				m.CurrentAppMode = model.ModeLogOverlay
				m.LogViewport.SetContent(FormatActivityLog([]string{"12:00:00 [INFO] Test: hello"}))
			},
			contains: []string{"Activity log", "hello"},
		},
		{
			name: "toast and status message",
			setup: func(m *model.Model) {
				m.Toast = &model.Toast{ChannelURL: "support", ChannelName: "Support", Sender: "Alice", Text: "ping"}
				m.StatusBarMessage = "Channel URL copied"
				m.StatusBarMessageType = components.StatusBarSuccess
			},
			contains: []string{"Alice in Support: ping", "Channel URL copied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			tt.setup(m)
			out := Render(m)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestTabs_BadgeOnChannelsTabOnly(t *testing.T) {
	m := newTestModel()
	m.Badge = badge.Render(5)

	tabs := Tabs(m)
	assert.Len(t, tabs, 2)
	assert.Equal(t, badge.State{Visible: true, Text: "5"}, tabs[0].Badge)
	assert.True(t, tabs[0].Active)
	assert.False(t, tabs[1].Badge.Visible)
	assert.False(t, tabs[1].Active)
}

func TestSettingsRows(t *testing.T) {
	m := newTestModel()
	m.DarkTheme = true
	m.SoftInputMode = components.SoftInputStateHidden

	rows := SettingsRows(m)
	assert.Len(t, rows, model.SettingCount)
	assert.Equal(t, "on", rows[model.SettingDarkTheme][1])
	assert.Equal(t, "hidden", rows[model.SettingSoftInput][1])
	assert.Equal(t, "off", rows[model.SettingDebug][1])
}

func TestFormatMessages(t *testing.T) {
	me := chat.User{ID: "me", Nickname: "Me"}
	assert.Contains(t, FormatMessages(nil, me, 40), "No messages yet")

	out := FormatMessages([]chat.Message{
		{Sender: me, Text: "mine", CreatedAt: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
		{Sender: chat.User{ID: "bob"}, Text: "theirs", CreatedAt: time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC)},
	}, me, 0)
	assert.Contains(t, out, "09:30")
	assert.Contains(t, out, "Me")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "theirs")
}

func TestSafeIcon(t *testing.T) {
	assert.Equal(t, "# ", SafeIcon(IconHash))
	assert.Equal(t, IconChat+"  ", SafeIcon(IconChat))
	assert.Equal(t, "# General", IconText(IconHash, "General"))
}
