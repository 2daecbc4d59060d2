package controller

import (
	"grouptalk/internal/tui/design"
	"grouptalk/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates the Bubble Tea program for the chat client.
func NewProgram(opts model.Options) (*tea.Program, *model.Model) {
	m := model.InitializeModel(opts)
	design.ApplyTheme(m.DarkTheme)

	app := NewAppModel(m)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	return p, m
}
