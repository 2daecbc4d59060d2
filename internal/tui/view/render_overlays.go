package view

import (
	"strings"

	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func renderHelpOverlay(m *model.Model) string {
	title := design.HelpTitleStyle.Render(IconText(IconQuestion, "Keyboard shortcuts"))

	var rows []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			rows = append(rows, helpRow(b))
		}
		rows = append(rows, "")
	}
	rows = append(rows, design.DimStyle.Render("Press h or esc to close"))

	container := design.CenteredOverlayContainerStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n")),
	)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, container)
}

func helpRow(b key.Binding) string {
	h := b.Help()
	keyCol := lipgloss.NewStyle().Width(12).Bold(true).Render(h.Key)
	return keyCol + design.TextSecondaryStyle.Render(h.Desc)
}

func renderLogOverlay(m *model.Model) string {
	title := design.LogPanelTitleStyle.Render(IconText(IconScroll, "Activity log"))
	hint := design.DimStyle.Render("↑/↓ scroll · y copy · L/esc close")

	container := design.LogOverlayStyle.
		Width(max(1, m.Width-4)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.LogViewport.View(), hint))
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, container)
}

// FormatLogLine colors an activity log line by its level tag.
func FormatLogLine(line string) string {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return design.LogErrorStyle.Render(line)
	case strings.Contains(line, "[WARN]"):
		return design.LogWarnStyle.Render(line)
	case strings.Contains(line, "[DEBUG]"):
		return design.LogDebugStyle.Render(line)
	default:
		return design.LogInfoStyle.Render(line)
	}
}

// FormatActivityLog renders the whole activity log for the log viewport.
func FormatActivityLog(lines []string) string {
	if len(lines) == 0 {
		return design.DimStyle.Render("No log entries yet.")
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = FormatLogLine(l)
	}
	return strings.Join(out, "\n")
}
