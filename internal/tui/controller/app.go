package controller

import (
	"grouptalk/internal/tui/model"
	"grouptalk/internal/tui/view"

	tea "github.com/charmbracelet/bubbletea"
)

// AppModel wraps the model to handle updates and views
type AppModel struct {
	model *model.Model
}

// NewAppModel creates a new app wrapper. It gives the channel list its
// navigator and the model its unread binding.
func NewAppModel(m *model.Model) AppModel {
	if m.Channels == nil {
		m.Channels = model.NewChannelList(func(channelURL string) tea.Cmd {
			return openChannel(m, channelURL)
		})
	}
	if m.Binding == nil && m.Client != nil {
		m.Binding = m.NewUnreadBinding()
	}
	return AppModel{model: m}
}

// Model returns the wrapped model.
func (a AppModel) Model() *model.Model {
	return a.model
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(a.model.Init(), onCreate(a.model))
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updatedModel, cmd := Update(msg, a.model)
	a.model = updatedModel
	return a, cmd
}

// View implements tea.Model
func (a AppModel) View() string {
	return view.Render(a.model)
}
