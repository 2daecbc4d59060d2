package components

import (
	"strings"

	"grouptalk/internal/tui/design"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// MessageType is the kind of a transient status bar message.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// StatusBar represents the bottom status bar
type StatusBar struct {
	Width       int
	Message     string
	MessageType MessageType
	LeftText    string
	RightText   string
	ShowMessage bool
}

// NewStatusBar creates a new status bar
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{
		Width: width,
	}
}

// WithMessage sets a status message
func (s *StatusBar) WithMessage(message string, msgType MessageType) *StatusBar {
	s.Message = message
	s.MessageType = msgType
	s.ShowMessage = message != ""
	return s
}

// WithLeftText sets the left side text
func (s *StatusBar) WithLeftText(text string) *StatusBar {
	s.LeftText = text
	return s
}

// WithRightText sets the right side text
func (s *StatusBar) WithRightText(text string) *StatusBar {
	s.RightText = text
	return s
}

// Render returns the styled status bar
func (s *StatusBar) Render() string {
	style := s.getStyle()
	inner := s.Width - design.SpaceSM*2

	var content string
	if s.ShowMessage {
		content = s.Message
	} else {
		switch {
		case s.LeftText != "" && s.RightText != "":
			padding := inner - lipgloss.Width(s.LeftText) - lipgloss.Width(s.RightText)
			if padding > 0 {
				content = s.LeftText + strings.Repeat(" ", padding) + s.RightText
			} else {
				// Not enough space, just show left text
				content = TruncateString(s.LeftText, inner)
			}
		case s.LeftText != "":
			content = s.LeftText
		default:
			content = s.RightText
		}
	}

	if s.Width <= 0 {
		return style.Render(content)
	}
	return style.
		Width(s.Width).
		MaxWidth(s.Width).
		Render(content)
}

func (s *StatusBar) getStyle() lipgloss.Style {
	if !s.ShowMessage {
		return design.StatusBarStyle
	}
	switch s.MessageType {
	case StatusBarSuccess:
		return design.StatusBarSuccessStyle
	case StatusBarError:
		return design.StatusBarErrorStyle
	case StatusBarWarning:
		return design.StatusBarWarningStyle
	default:
		return design.StatusBarInfoStyle
	}
}

// TruncateString cuts s to at most width terminal cells, appending an
// ellipsis when something was removed.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
