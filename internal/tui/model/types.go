package model

import (
	"context"
	"time"

	"grouptalk/internal/badge"
	"grouptalk/internal/chat"
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
)

// AppMode represents the current mode of the application
type AppMode int

const (
	ModeNormal AppMode = iota
	ModeHelpOverlay
	ModeLogOverlay
	ModeQuitting
)

// String provides a human-readable representation of the AppMode.
func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// Screen is the page on top of the navigation stack.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenChannel
)

func (s Screen) String() string {
	if s == ScreenChannel {
		return "Channel"
	}
	return "Main"
}

// Tab is a page of the main screen.
type Tab int

const (
	TabChannels Tab = iota
	TabSettings
)

// TabCount is the number of fixed tabs on the main screen.
const TabCount = 2

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab { return (t + 1) % TabCount }

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab { return (t + TabCount - 1) % TabCount }

// Settings rows, in display order.
const (
	SettingDarkTheme = iota
	SettingSoftInput
	SettingDebug
	SettingCount
)

// Constants for UI
const (
	MaxActivityLogLines = 1000
	MessageHistoryLimit = 50
	ToastDuration       = 6 * time.Second
	StatusDuration      = 3 * time.Second
)

// Toast is a push notification for a message that arrived elsewhere.
type Toast struct {
	ChannelURL  string
	ChannelName string
	Sender      string
	Text        string
}

// Model represents the state of the TUI application
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	// Global application state
	CurrentAppMode  AppMode
	LastAppMode     AppMode
	Screen          Screen
	ActiveTab       Tab
	DebugMode       bool
	Focused         bool
	QuittingMessage string

	// Chat backend
	Client      chat.Client
	CurrentUser chat.User
	Binding     *unread.Binding
	FeedSub     *chat.Subscription
	FeedCancel  context.CancelFunc

	// Unread badge
	BadgeRenderer      badge.Renderer
	UnreadCount        int
	UnreadByCustomType map[string]int
	Badge              badge.State
	LastUnreadAt       time.Time

	// Redirects
	CurrentSignal *redirect.Signal
	LastAction    redirect.Action

	// Main screen
	ChannelsTitle  string
	SettingsTitle  string
	Channels       *ChannelList
	ChannelsLoaded bool
	SettingsCursor int
	DarkTheme      bool
	Toast          *Toast
	ToastCancel    chan struct{}

	// Channel screen
	ActiveChannel   chat.GroupChannel
	Messages        []chat.Message
	MessageViewport viewport.Model
	MessageInput    textinput.Model
	SoftInputMode   components.SoftInputMode

	// UI State & Output
	ActivityLog          []string
	ActivityLogDirty     bool
	LogViewport          viewport.Model
	Spinner              spinner.Model
	IsLoading            bool
	Keys                 KeyMap
	Help                 help.Model
	TUIChannel           chan tea.Msg
	StatusBarMessage     string
	StatusBarMessageType components.MessageType
	StatusBarClearCancel chan struct{}

	// Logging
	LogChannel <-chan logging.LogEntry
}

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Enter       key.Binding
	Esc         key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	Refresh     key.Binding
	OpenToast   key.Binding
	CopyURL     key.Binding
	FocusInput  key.Binding
	ToggleDark  key.Binding
	ToggleDebug key.Binding
	ToggleLog   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Enter, k.OpenToast, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.Enter, k.Esc},
		{k.Refresh, k.OpenToast, k.CopyURL, k.FocusInput},
		{k.ToggleDark, k.ToggleDebug, k.ToggleLog, k.Help, k.Quit},
	}
}

// SetStatusMessage updates the status bar message
func (m *Model) SetStatusMessage(message string, msgType components.MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}

	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(t time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{}
		}
	})
}

// ShowToast displays t and schedules its removal.
func (m *Model) ShowToast(t Toast, clearAfter time.Duration) tea.Cmd {
	m.Toast = &t

	if m.ToastCancel != nil {
		close(m.ToastCancel)
	}
	m.ToastCancel = make(chan struct{})
	captured := m.ToastCancel

	return tea.Tick(clearAfter, func(time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearToastMsg{}
		}
	})
}

// DismissToast removes the toast and returns it, or nil.
func (m *Model) DismissToast() *Toast {
	t := m.Toast
	m.Toast = nil
	if m.ToastCancel != nil {
		close(m.ToastCancel)
		m.ToastCancel = nil
	}
	return t
}

// MainScreenVisible reports whether the main screen is what the user sees.
func (m *Model) MainScreenVisible() bool {
	return m.Focused && m.Screen == ScreenMain && m.CurrentAppMode != ModeQuitting
}
