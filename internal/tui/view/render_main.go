package view

import (
	"fmt"
	"sort"
	"strings"

	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
)

// Tabs returns the two fixed tabs of the main screen, the channels tab
// carrying the unread badge.
func Tabs(m *model.Model) []components.TabView {
	channels := components.NewTabView(m.ChannelsTitle, IconChat).WithBadge(m.Badge)
	settings := components.NewTabView(m.SettingsTitle, IconGear)
	channels.Active = m.ActiveTab == model.TabChannels
	settings.Active = m.ActiveTab == model.TabSettings
	return []components.TabView{channels, settings}
}

func renderMainScreen(m *model.Model) string {
	header := components.RenderTabBar(m.Width, Tabs(m)...)

	var body string
	switch m.ActiveTab {
	case model.TabSettings:
		body = renderSettings(m)
	default:
		body = renderChannelList(m)
	}

	bodyHeight := m.Height - 3
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Width(m.Width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderChannelList(m *model.Model) string {
	if m.Channels == nil || (!m.ChannelsLoaded && m.Channels.Len() == 0) {
		return design.TextSecondaryStyle.Render(m.Spinner.View() + " Loading channels...")
	}
	if m.Channels.Len() == 0 {
		return design.TextSecondaryStyle.Render("No channels yet.")
	}
	return m.Channels.View()
}

// SettingsRows returns the label and current value of each settings row.
func SettingsRows(m *model.Model) [][2]string {
	rows := make([][2]string, model.SettingCount)
	rows[model.SettingDarkTheme] = [2]string{"Dark theme", onOff(m.DarkTheme)}
	rows[model.SettingSoftInput] = [2]string{"Focus input when a channel opens", m.SoftInputMode.String()}
	rows[model.SettingDebug] = [2]string{"Debug logging", onOff(m.DebugMode)}
	return rows
}

func renderSettings(m *model.Model) string {
	var b strings.Builder
	b.WriteString(design.TitleStyle.Render(IconText(IconGear, m.SettingsTitle)))
	b.WriteString("\n")

	for i, row := range SettingsRows(m) {
		line := fmt.Sprintf("%-36s %s", row[0], row[1])
		if i == m.SettingsCursor {
			b.WriteString(design.ListItemSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(design.ListItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(design.TitleStyle.Render(IconText(IconBell, "Unread")))
	b.WriteString("\n")
	b.WriteString(design.ListItemStyle.Render(fmt.Sprintf("Total: %d", m.UnreadCount)))
	b.WriteString("\n")
	if len(m.UnreadByCustomType) > 0 {
		types := make([]string, 0, len(m.UnreadByCustomType))
		for t := range m.UnreadByCustomType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			name := t
			if name == "" {
				name = "(default)"
			}
			b.WriteString(design.ListItemStyle.Render(fmt.Sprintf("%s: %d", name, m.UnreadByCustomType[t])))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(design.DimStyle.Render("enter: change · tab: switch tab · q: quit"))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
