package model

import (
	"grouptalk/internal/chat"
	"grouptalk/internal/redirect"
	"grouptalk/internal/unread"
	"grouptalk/pkg/logging"
)

// ActivateMsg re-activates the main screen with a new launch signal.
type ActivateMsg struct {
	Signal *redirect.Signal
}

// UnreadCountMsg carries a pulled or pushed total unread count.
type UnreadCountMsg struct {
	Update unread.Update
}

type ChannelsLoadedMsg struct {
	Channels []chat.GroupChannel
	Err      error
}

type ChannelOpenedMsg struct {
	ChannelURL string
	Channel    chat.GroupChannel
	Messages   []chat.Message
	Err        error
}

type MessageSentMsg struct {
	ChannelURL string
	Message    chat.Message
	Err        error
}

type MarkedReadMsg struct {
	ChannelURL string
	Err        error
}

// IncomingMessageMsg is a message-received event from the backend feed.
type IncomingMessageMsg struct {
	Event chat.Event
}

// NewLogEntryMsg carries a log entry from pkg/logging into the TUI.
type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

type ClearStatusBarMsg struct{}

type ClearToastMsg struct{}
