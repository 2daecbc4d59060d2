package controller

import (
	"errors"
	"fmt"

	"grouptalk/internal/chat"
	"grouptalk/internal/redirect"
	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/model"
	"grouptalk/internal/tui/view"

	tea "github.com/charmbracelet/bubbletea"
)

const navigationSubsystem = "Navigation"

// openChannel pushes the channel screen for channelURL. Redirects and list
// selections both land here.
func openChannel(m *model.Model, channelURL string) tea.Cmd {
	if channelURL == "" || m.Client == nil {
		return nil
	}
	LogInfo(navigationSubsystem, "opening channel %s", channelURL)

	if m.CurrentAppMode != model.ModeQuitting {
		m.CurrentAppMode = model.ModeNormal
	}
	m.Screen = model.ScreenChannel
	m.ActiveChannel = chat.GroupChannel{URL: channelURL}
	m.Messages = nil
	m.MessageInput.Reset()
	m.IsLoading = true
	if t := m.Toast; t != nil && t.ChannelURL == channelURL {
		m.DismissToast()
	}
	refreshMessages(m)
	syncBinding(m)

	return tea.Batch(
		model.OpenChannelCmd(m.Client, channelURL),
		components.ApplySoftInputMode(m.SoftInputMode, &m.MessageInput),
	)
}

// closeChannel pops the channel screen and returns to the main screen.
func closeChannel(m *model.Model) tea.Cmd {
	if m.Screen != model.ScreenChannel {
		return nil
	}
	LogDebug(m, navigationSubsystem, "closing channel %s", m.ActiveChannel.URL)

	components.HideSoftInput(&m.MessageInput)
	m.MessageInput.Reset()
	m.Screen = model.ScreenMain
	m.ActiveChannel = chat.GroupChannel{}
	m.Messages = nil
	m.IsLoading = false
	syncBinding(m)

	if m.Client == nil {
		return nil
	}
	return model.LoadChannelsCmd(m.Client)
}

func handleChannelOpened(m *model.Model, msg model.ChannelOpenedMsg) tea.Cmd {
	if m.Screen != model.ScreenChannel || msg.ChannelURL != m.ActiveChannel.URL {
		LogDebug(m, navigationSubsystem, "ignoring result for %s", msg.ChannelURL)
		return nil
	}
	m.IsLoading = false

	if msg.Err != nil {
		LogError(navigationSubsystem, msg.Err, "failed to open channel %s", msg.ChannelURL)
		text := "Could not open channel"
		if errors.Is(msg.Err, chat.ErrChannelNotFound) {
			text = fmt.Sprintf("Channel %s not found", msg.ChannelURL)
		}
		return tea.Batch(
			closeChannel(m),
			m.SetStatusMessage(text, components.StatusBarError, model.StatusDuration),
		)
	}

	m.ActiveChannel = msg.Channel
	m.Messages = msg.Messages
	refreshMessages(m)
	return nil
}

func handleMessageSent(m *model.Model, msg model.MessageSentMsg) tea.Cmd {
	if msg.Err != nil {
		LogError(navigationSubsystem, msg.Err, "failed to send message to %s", msg.ChannelURL)
		return m.SetStatusMessage("Message not sent", components.StatusBarError, model.StatusDuration)
	}
	if m.Screen == model.ScreenChannel && msg.ChannelURL == m.ActiveChannel.URL {
		appendMessage(m, msg.Message)
	}
	return nil
}

// handleIncomingMessage shows a message in the open channel or raises a
// push toast for it.
func handleIncomingMessage(m *model.Model, msg model.IncomingMessageMsg) tea.Cmd {
	evt := msg.Event
	if evt.Message == nil {
		return nil
	}
	fromSelf := evt.Message.Sender.ID == m.CurrentUser.ID

	if m.Screen == model.ScreenChannel && evt.ChannelURL == m.ActiveChannel.URL {
		appendMessage(m, *evt.Message)
		if fromSelf || m.Client == nil {
			return nil
		}
		return model.MarkReadCmd(m.Client, evt.ChannelURL)
	}

	var cmds []tea.Cmd
	if !fromSelf {
		name := evt.ChannelName
		if name == "" {
			name = evt.ChannelURL
		}
		cmds = append(cmds, m.ShowToast(model.Toast{
			ChannelURL:  evt.ChannelURL,
			ChannelName: name,
			Sender:      evt.Message.Sender.DisplayName(),
			Text:        evt.Message.Text,
		}, model.ToastDuration))
	}
	if m.Screen == model.ScreenMain && m.Client != nil {
		cmds = append(cmds, model.LoadChannelsCmd(m.Client))
	}
	return tea.Batch(cmds...)
}

// openToast turns the current toast into an activation carrying its channel.
func openToast(m *model.Model) tea.Cmd {
	t := m.DismissToast()
	if t == nil {
		return m.SetStatusMessage("No new notifications", components.StatusBarInfo, model.StatusDuration)
	}
	signal := redirect.NewRedirectSignal(t.ChannelURL)
	return func() tea.Msg {
		return model.ActivateMsg{Signal: signal}
	}
}

// appendMessage adds msg to the open channel unless it is already shown.
func appendMessage(m *model.Model, msg chat.Message) {
	for i := len(m.Messages) - 1; i >= 0 && i >= len(m.Messages)-model.MessageHistoryLimit; i-- {
		if m.Messages[i].ID == msg.ID {
			return
		}
	}
	m.Messages = append(m.Messages, msg)
	refreshMessages(m)
}

func refreshMessages(m *model.Model) {
	m.MessageViewport.SetContent(view.FormatMessages(m.Messages, m.CurrentUser, m.MessageViewport.Width))
	m.MessageViewport.GotoBottom()
}
