package components

import (
	"strings"

	"grouptalk/internal/badge"
	"grouptalk/internal/tui/design"

	"github.com/charmbracelet/lipgloss"
)

// TabView is one entry of the tab bar.
type TabView struct {
	Title  string
	Icon   string
	Badge  badge.State
	Active bool
}

// NewTabView creates an inactive tab without a badge.
func NewTabView(title, icon string) TabView {
	return TabView{Title: title, Icon: icon}
}

// WithBadge returns a copy of t showing state.
func (t TabView) WithBadge(state badge.State) TabView {
	t.Badge = state
	return t
}

// Render draws the tab label followed by its badge, if visible.
func (t TabView) Render() string {
	label := t.Title
	if t.Icon != "" {
		label = t.Icon + " " + label
	}

	style := design.TabStyle
	if t.Active {
		style = design.TabActiveStyle
	}
	rendered := style.Render(label)
	if t.Badge.Visible {
		rendered = lipgloss.JoinHorizontal(lipgloss.Center, rendered, design.BadgeStyle.Render(t.Badge.Text))
	}
	return rendered
}

// RenderTabBar lays tabs out left to right separated by a divider.
func RenderTabBar(width int, tabs ...TabView) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		parts = append(parts, t.Render())
	}
	bar := strings.Join(parts, design.DimStyle.Render(" │ "))
	if width <= 0 {
		return bar
	}
	return design.HeaderStyle.Width(width).MaxWidth(width).Render(bar)
}
