package controller

import (
	"context"

	"grouptalk/internal/chat"
	"grouptalk/internal/redirect"
	"grouptalk/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

const lifecycleSubsystem = "Lifecycle"

// onCreate runs once when the program starts: it starts the message feed,
// resolves the launch signal and binds the badge if the main screen is
// showing.
func onCreate(m *model.Model) tea.Cmd {
	startFeed(m)
	cmd := handleActivate(m, m.CurrentSignal)
	syncBinding(m)
	return cmd
}

// handleActivate resolves an activation signal against the signal the
// program was launched with.
func handleActivate(m *model.Model, incoming *redirect.Signal) tea.Cmd {
	action := redirect.Resolve(m.CurrentSignal, incoming)
	m.LastAction = action
	LogDebug(m, lifecycleSubsystem, "activation resolved to %s", action)

	switch action.Kind {
	case redirect.ActionNavigate:
		return openChannel(m, action.ChannelURL)
	case redirect.ActionClearRedirect:
		LogInfo(lifecycleSubsystem, "launched from history, dropping stale redirect")
	}
	return nil
}

// syncBinding subscribes the badge while the main screen is visible and
// unsubscribes it otherwise. It is safe to call after every transition.
func syncBinding(m *model.Model) {
	if m.Binding == nil {
		return
	}
	want := m.MainScreenVisible()
	switch {
	case want && !m.Binding.Active():
		if err := m.Binding.Resume(context.Background()); err != nil {
			LogError(lifecycleSubsystem, err, "failed to subscribe to unread updates")
			return
		}
		LogDebug(m, lifecycleSubsystem, "unread binding resumed as %s", m.Binding.Token())
	case !want && m.Binding.Active():
		m.Binding.Pause()
		LogDebug(m, lifecycleSubsystem, "unread binding paused")
	}
}

// handleUnreadCount applies an unread update to the badge unless it belongs
// to an earlier subscription or is older than what is already shown.
func handleUnreadCount(m *model.Model, msg model.UnreadCountMsg) {
	u := msg.Update
	if m.Binding == nil || u.Token == "" || u.Token != m.Binding.Token() {
		LogDebug(m, lifecycleSubsystem, "dropping %s update from %q", u.Origin, u.Token)
		return
	}
	if u.ObservedAt.Before(m.LastUnreadAt) {
		LogDebug(m, lifecycleSubsystem, "dropping stale %s update (%d)", u.Origin, u.Count)
		return
	}

	m.LastUnreadAt = u.ObservedAt
	m.UnreadCount = u.Count
	m.UnreadByCustomType = u.ByCustomType
	if m.UnreadByCustomType == nil {
		m.UnreadByCustomType = map[string]int{}
	}
	m.Badge = m.BadgeRenderer.Render(u.Count)
}

func startFeed(m *model.Model) {
	if m.Client == nil || m.FeedSub != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := m.Client.AddUserEventHandler(chat.NewHandlerKey("feed"), model.FeedHandler(ctx, m.TUIChannel))
	if err != nil {
		cancel()
		LogError(lifecycleSubsystem, err, "failed to subscribe to message feed")
		return
	}
	m.FeedSub = sub
	m.FeedCancel = cancel
}

func stopFeed(m *model.Model) {
	if m.FeedSub == nil {
		return
	}
	m.FeedCancel()
	m.FeedSub.Cancel()
	m.FeedSub, m.FeedCancel = nil, nil
}

// shutdown releases every subscription the TUI holds.
func shutdown(m *model.Model) {
	m.CurrentAppMode = model.ModeQuitting
	syncBinding(m)
	stopFeed(m)
}
