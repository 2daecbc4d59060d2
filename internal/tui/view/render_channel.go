package view

import (
	"fmt"
	"strings"

	"grouptalk/internal/chat"
	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
)

func renderChannelScreen(m *model.Model) string {
	ch := m.ActiveChannel
	title := ch.Name
	if title == "" {
		title = ch.URL
	}
	header := IconText(IconHash, title)
	if ch.MemberCount > 0 {
		header += design.DimStyle.Render(fmt.Sprintf("  %d members", ch.MemberCount))
	}
	header = design.HeaderStyle.Width(m.Width).MaxWidth(m.Width).Render(components.TruncateString(header, m.Width))

	var body string
	if m.IsLoading && len(m.Messages) == 0 {
		body = design.TextSecondaryStyle.Render(m.Spinner.View() + " Loading messages...")
		body = lipgloss.NewStyle().Height(m.MessageViewport.Height).Render(body)
	} else {
		body = m.MessageViewport.View()
	}

	inputStyle := design.InputStyle
	if m.MessageInput.Focused() {
		inputStyle = design.InputFocusedStyle
	}
	input := inputStyle.Width(max(1, m.Width-2)).Render(m.MessageInput.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input)
}

// FormatMessages renders a channel history for the message viewport.
func FormatMessages(msgs []chat.Message, self chat.User, width int) string {
	if len(msgs) == 0 {
		return design.DimStyle.Render("No messages yet. Say hello!")
	}

	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		senderStyle := design.MessageSenderStyle
		if msg.Sender.ID == self.ID {
			senderStyle = design.MessageSelfStyle
		}
		prefix := design.MessageTimeStyle.Render(msg.CreatedAt.Format("15:04")) + " " +
			senderStyle.Render(msg.Sender.DisplayName()) + ": "
		line := prefix + msg.Text
		if width > 0 {
			line = lipgloss.NewStyle().Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
