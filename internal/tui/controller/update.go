package controller

import (
	"grouptalk/internal/tui/components"
	"grouptalk/internal/tui/model"
	"grouptalk/internal/tui/view"
	"grouptalk/pkg/logging"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const controllerDispatchSubsystem = "ControllerDispatch"

// Update is the central message routing function for the TUI. It directs
// every Bubble Tea message to its handler and collects the resulting
// commands.
func Update(msg tea.Msg, m *model.Model) (*model.Model, tea.Cmd) {
	switch msg.(type) {
	case spinner.TickMsg, model.NewLogEntryMsg:
	default:
		LogDebug(m, controllerDispatchSubsystem, "Received msg: %T", msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		refreshMessages(m)
		if m.CurrentAppMode == model.ModeLogOverlay {
			m.LogViewport.SetContent(view.FormatActivityLog(m.ActivityLog))
		}
		return m, nil

	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case tea.FocusMsg:
		m.Focused = true
		syncBinding(m)
		return m, nil

	case tea.BlurMsg:
		m.Focused = false
		syncBinding(m)
		return m, nil

	case model.ActivateMsg:
		cmd := handleActivate(m, msg.Signal)
		syncBinding(m)
		return m, cmd

	case model.UnreadCountMsg:
		handleUnreadCount(m, msg)
		return m, model.ChannelReaderCmd(m.TUIChannel)

	case model.IncomingMessageMsg:
		cmd := handleIncomingMessage(m, msg)
		return m, tea.Batch(cmd, model.ChannelReaderCmd(m.TUIChannel))

	case model.ChannelsLoadedMsg:
		return m, handleChannelsLoaded(m, msg)

	case model.ChannelOpenedMsg:
		return m, handleChannelOpened(m, msg)

	case model.MessageSentMsg:
		return m, handleMessageSent(m, msg)

	case model.MarkedReadMsg:
		if msg.Err != nil {
			LogWarn(controllerSubsystem, "failed to mark %s read: %v", msg.ChannelURL, msg.Err)
		}
		return m, nil

	case model.NewLogEntryMsg:
		handleNewLogEntry(m, msg)
		return m, model.ListenForLogEntriesCmd(m.LogChannel)

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""
		if m.StatusBarClearCancel != nil {
			close(m.StatusBarClearCancel)
			m.StatusBarClearCancel = nil
		}
		return m, nil

	case model.ClearToastMsg:
		m.DismissToast()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Everything else belongs to the widgets of the visible screen.
	var cmd tea.Cmd
	if m.Screen == model.ScreenChannel {
		m.MessageInput, cmd = m.MessageInput.Update(msg)
	} else if m.Channels != nil {
		cmd = m.Channels.Update(msg)
	}
	return m, cmd
}

func handleChannelsLoaded(m *model.Model, msg model.ChannelsLoadedMsg) tea.Cmd {
	if m.Screen == model.ScreenMain {
		m.IsLoading = false
	}
	if msg.Err != nil {
		LogError(controllerSubsystem, msg.Err, "failed to load channels")
		return m.SetStatusMessage("Could not load channels", components.StatusBarError, model.StatusDuration)
	}
	m.ChannelsLoaded = true
	return m.Channels.SetChannels(msg.Channels)
}

func handleNewLogEntry(m *model.Model, msg model.NewLogEntryMsg) {
	entry := msg.Entry
	if entry.Level < logging.LevelInfo && !m.DebugMode {
		return
	}
	model.AddRawLineToActivityLog(m, entry.Format())

	if m.CurrentAppMode == model.ModeLogOverlay {
		m.LogViewport.SetContent(view.FormatActivityLog(m.ActivityLog))
		m.LogViewport.GotoBottom()
		m.ActivityLogDirty = false
	}
}
