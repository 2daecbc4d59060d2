package view

import (
	"fmt"
	"strings"

	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
)

// Render is the main view function that renders the entire UI
func Render(m *model.Model) string {
	if m.CurrentAppMode == model.ModeQuitting {
		return renderQuitting(m)
	}
	if m.Width == 0 || m.Height == 0 {
		return "Initializing..."
	}

	switch m.CurrentAppMode {
	case model.ModeHelpOverlay:
		return renderHelpOverlay(m)
	case model.ModeLogOverlay:
		return renderLogOverlay(m)
	}

	var body string
	if m.Screen == model.ScreenChannel {
		body = renderChannelScreen(m)
	} else {
		body = renderMainScreen(m)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		renderToast(m),
		renderStatusBar(m),
	)
}

func renderQuitting(m *model.Model) string {
	msg := m.QuittingMessage
	if msg == "" {
		msg = "Goodbye"
	}
	if m.Width == 0 || m.Height == 0 {
		return msg + "\n"
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, design.TextSecondaryStyle.Render(msg))
}

// renderToast draws the push notification line, blank when there is none.
func renderToast(m *model.Model) string {
	if m.Toast == nil {
		return ""
	}
	t := m.Toast
	text := fmt.Sprintf("%s%s in %s: %s  [o] open",
		SafeIcon(IconBell), t.Sender, t.ChannelName, singleLine(t.Text))
	width := m.Width - design.SpaceSM*2
	return design.ToastStyle.Width(m.Width).MaxWidth(m.Width).Render(components.TruncateString(text, width))
}

func renderStatusBar(m *model.Model) string {
	left := m.Screen.String()
	if m.Screen == model.ScreenMain {
		left = currentTabTitle(m)
	} else if m.ActiveChannel.Name != "" {
		left = m.ActiveChannel.Name
	}
	if m.IsLoading {
		left = m.Spinner.View() + " " + left
	}

	right := IconText(IconUser, m.CurrentUser.DisplayName())
	if m.DebugMode {
		right = "debug · " + right
	}

	return components.NewStatusBar(m.Width).
		WithLeftText(left).
		WithRightText(right).
		WithMessage(m.StatusBarMessage, m.StatusBarMessageType).
		Render()
}

func currentTabTitle(m *model.Model) string {
	if m.ActiveTab == model.TabSettings {
		return m.SettingsTitle
	}
	return m.ChannelsTitle
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
