package controller

import (
	"strings"

	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"
	"grouptalk/internal/tui/view"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const keySubsystem = "KeyHandler"

// handleKeyMsg routes a key press by overlay, then by screen.
func handleKeyMsg(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if key.Matches(keyMsg, m.Keys.ForceQuit) {
		return quit(m)
	}

	switch m.CurrentAppMode {
	case model.ModeHelpOverlay:
		if key.Matches(keyMsg, m.Keys.Esc, m.Keys.Help) {
			m.CurrentAppMode = model.ModeNormal
		}
		return m, nil
	case model.ModeLogOverlay:
		return handleLogOverlayKey(m, keyMsg)
	}

	if m.Screen == model.ScreenChannel {
		return handleChannelKey(m, keyMsg)
	}
	return handleMainKey(m, keyMsg)
}

func handleLogOverlayKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, m.Keys.Esc, m.Keys.ToggleLog):
		m.CurrentAppMode = model.ModeNormal
		return m, nil
	case key.Matches(keyMsg, m.Keys.CopyURL):
		if err := clipboard.WriteAll(strings.Join(m.ActivityLog, "\n")); err != nil {
			LogError(keySubsystem, err, "Failed to copy logs")
			return m, m.SetStatusMessage("Copy logs failed", components.StatusBarError, model.StatusDuration)
		}
		return m, m.SetStatusMessage("Logs copied to clipboard", components.StatusBarSuccess, model.StatusDuration)
	}
	var cmd tea.Cmd
	m.LogViewport, cmd = m.LogViewport.Update(keyMsg)
	return m, cmd
}

// handleCommonKey handles the shortcuts shared by both screens. It reports
// whether the key was consumed.
func handleCommonKey(m *model.Model, keyMsg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, m.Keys.Help):
		m.CurrentAppMode = model.ModeHelpOverlay
		return true, nil
	case key.Matches(keyMsg, m.Keys.ToggleLog):
		openLogOverlay(m)
		return true, nil
	case key.Matches(keyMsg, m.Keys.OpenToast):
		return true, openToast(m)
	case key.Matches(keyMsg, m.Keys.ToggleDark):
		return true, toggleDarkTheme(m)
	case key.Matches(keyMsg, m.Keys.ToggleDebug):
		m.DebugMode = !m.DebugMode
		return true, nil
	}
	return false, nil
}

func handleMainKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if m.ActiveTab == model.TabChannels && m.Channels != nil && m.Channels.Filtering() {
		return m, m.Channels.Update(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, m.Keys.NextTab):
		m.ActiveTab = m.ActiveTab.Next()
		return m, nil
	case key.Matches(keyMsg, m.Keys.PrevTab):
		m.ActiveTab = m.ActiveTab.Prev()
		return m, nil
	}
	if handled, cmd := handleCommonKey(m, keyMsg); handled {
		return m, cmd
	}

	if m.ActiveTab == model.TabSettings {
		return handleSettingsKey(m, keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Enter):
		return m, m.Channels.Select()
	case key.Matches(keyMsg, m.Keys.CopyURL):
		ch, ok := m.Channels.Selected()
		if !ok {
			return m, nil
		}
		return m, copyToClipboard(m, ch.URL)
	case key.Matches(keyMsg, m.Keys.Refresh):
		if m.Client == nil {
			return m, nil
		}
		return m, model.LoadChannelsCmd(m.Client)
	}
	return m, m.Channels.Update(keyMsg)
}

func handleSettingsKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.SettingsCursor > 0 {
			m.SettingsCursor--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.SettingsCursor < model.SettingCount-1 {
			m.SettingsCursor++
		}
	case key.Matches(keyMsg, m.Keys.Enter):
		return m, applySetting(m)
	}
	return m, nil
}

func applySetting(m *model.Model) tea.Cmd {
	switch m.SettingsCursor {
	case model.SettingDarkTheme:
		return toggleDarkTheme(m)
	case model.SettingSoftInput:
		m.SoftInputMode = m.SoftInputMode.Next()
		LogDebug(m, keySubsystem, "soft input mode now %s", m.SoftInputMode)
	case model.SettingDebug:
		m.DebugMode = !m.DebugMode
	}
	return nil
}

func handleChannelKey(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if m.MessageInput.Focused() {
		switch {
		case key.Matches(keyMsg, m.Keys.Esc):
			components.HideSoftInput(&m.MessageInput)
			return m, nil
		case key.Matches(keyMsg, m.Keys.Enter):
			text := strings.TrimSpace(m.MessageInput.Value())
			if text == "" || m.Client == nil {
				return m, nil
			}
			m.MessageInput.Reset()
			return m, model.SendMessageCmd(m.Client, m.ActiveChannel.URL, text)
		}
		var cmd tea.Cmd
		m.MessageInput, cmd = m.MessageInput.Update(keyMsg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Esc):
		return m, closeChannel(m)
	case key.Matches(keyMsg, m.Keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, m.Keys.FocusInput, m.Keys.Enter):
		return m, components.ShowSoftInput(&m.MessageInput)
	case key.Matches(keyMsg, m.Keys.CopyURL):
		return m, copyToClipboard(m, m.ActiveChannel.URL)
	}
	if handled, cmd := handleCommonKey(m, keyMsg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.MessageViewport, cmd = m.MessageViewport.Update(keyMsg)
	return m, cmd
}

func openLogOverlay(m *model.Model) {
	m.CurrentAppMode = model.ModeLogOverlay
	m.LogViewport.SetContent(view.FormatActivityLog(m.ActivityLog))
	m.LogViewport.GotoBottom()
	m.ActivityLogDirty = false
}

func toggleDarkTheme(m *model.Model) tea.Cmd {
	m.DarkTheme = !m.DarkTheme
	design.ApplyTheme(m.DarkTheme)
	if m.DarkTheme {
		return m.SetStatusMessage("Dark theme", components.StatusBarInfo, model.StatusDuration)
	}
	return m.SetStatusMessage("Light theme", components.StatusBarInfo, model.StatusDuration)
}

func copyToClipboard(m *model.Model, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		LogError(keySubsystem, err, "Failed to copy channel URL")
		return m.SetStatusMessage("Copy failed", components.StatusBarError, model.StatusDuration)
	}
	return m.SetStatusMessage("Channel URL copied", components.StatusBarSuccess, model.StatusDuration)
}

func quit(m *model.Model) (*model.Model, tea.Cmd) {
	m.QuittingMessage = "Signing off..."
	shutdown(m)
	return m, tea.Quit
}
