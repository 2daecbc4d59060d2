package model

import (
	"grouptalk/internal/badge"
	"grouptalk/internal/chat"
	"grouptalk/internal/config"
	"grouptalk/internal/redirect"
	"grouptalk/internal/tui/components"
	"grouptalk/internal/unread"
	"grouptalk/pkg/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rows taken by fixed chrome around the page bodies.
const (
	headerHeight    = 1
	statusBarHeight = 1
	toastHeight     = 1
	inputHeight     = 3
)

// DefaultKeyMap returns a KeyMap with the default bindings used by the TUI.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "navigate up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "navigate down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/send"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh channels"),
		),
		OpenToast: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open notification"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy channel URL"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "type a message"),
		),
		ToggleDark: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "toggle dark/light mode"),
		),
		ToggleDebug: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "toggle debug info"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "toggle log overlay"),
		),
	}
}

// Options holds what the TUI needs from the command line.
type Options struct {
	Client       chat.Client
	Config       config.Config
	DebugMode    bool
	LaunchSignal *redirect.Signal
	LogChannel   <-chan logging.LogEntry
}

// InitializeModel constructs the initial model. The channel list and the
// unread binding are left to the controller, which owns navigation.
func InitializeModel(opts Options) *Model {
	cfg := opts.Config

	input := textinput.New()
	input.Placeholder = "Write a message"
	input.CharLimit = 2000
	input.Prompt = "› "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	signal := opts.LaunchSignal
	if signal == nil {
		signal = redirect.NewSignal(0)
	}

	m := &Model{
		CurrentAppMode:   ModeNormal,
		Screen:           ScreenMain,
		ActiveTab:        TabChannels,
		DebugMode:        opts.DebugMode,
		Focused:          true,
		Client:           opts.Client,
		BadgeRenderer:    badge.NewRenderer(cfg.Badge.MaxCount, cfg.Badge.OverflowLabel),
		CurrentSignal:    signal,
		LastAction:       redirect.None,
		ChannelsTitle:    cfg.Tabs.ChannelsTitle,
		SettingsTitle:    cfg.Tabs.SettingsTitle,
		DarkTheme:        cfg.Theme.IsDark(),
		MessageViewport:  viewport.New(0, 0),
		MessageInput:     input,
		SoftInputMode:    components.SoftInputStateVisible,
		ActivityLog:      make([]string, 0),
		ActivityLogDirty: true,
		LogViewport:      viewport.New(0, 0),
		Spinner:          s,
		IsLoading:        true,
		Keys:             DefaultKeyMap(),
		Help:             help.New(),
		TUIChannel:       make(chan tea.Msg, 100),
		LogChannel:       opts.LogChannel,
	}
	if m.ChannelsTitle == "" {
		m.ChannelsTitle = "Channels"
	}
	if m.SettingsTitle == "" {
		m.SettingsTitle = "Settings"
	}
	if opts.Client != nil {
		m.CurrentUser = opts.Client.CurrentUser()
	}
	return m
}

// NewUnreadBinding builds the binding that feeds the badge through TUIChannel.
func (m *Model) NewUnreadBinding(opts ...unread.Option) *unread.Binding {
	return unread.NewBinding(m.Client, UnreadSink(m.TUIChannel), append([]unread.Option{unread.WithKeyPrefix("main")}, opts...)...)
}

// Init starts the background readers and the first channel load.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		ChannelReaderCmd(m.TUIChannel),
		m.Spinner.Tick,
	}
	if m.LogChannel != nil {
		cmds = append(cmds, ListenForLogEntriesCmd(m.LogChannel))
	}
	if m.Client != nil {
		cmds = append(cmds, LoadChannelsCmd(m.Client))
	}
	return tea.Batch(cmds...)
}

// SetSize lays the pages out for a terminal of the given size.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height

	body := height - headerHeight - statusBarHeight - toastHeight
	if body < 1 {
		body = 1
	}
	if m.Channels != nil {
		m.Channels.SetSize(width, body)
	}

	m.MessageViewport.Width = width
	m.MessageViewport.Height = max(1, body-inputHeight)
	m.MessageInput.Width = max(1, width-6)

	m.LogViewport.Width = max(1, width-8)
	m.LogViewport.Height = max(1, height-8)
	m.Help.Width = width
}
