// Package chat is the chat backend the main screen talks to: group channels,
// messages, unread counts and the user event stream.
//
// Store is the in-process implementation used by the demo server and by the
// TUI in "memory" mode; internal/transport provides a remote Client speaking
// to a Store over HTTP and websocket.
package chat

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrChannelNotFound is returned for unknown channel URLs.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrDuplicateHandlerKey is returned when a handler key is already registered.
	ErrDuplicateHandlerKey = errors.New("user event handler key already registered")
	// ErrClosed is returned after the client or hub has been closed.
	ErrClosed = errors.New("chat client closed")
	// ErrEmptyMessage is returned when sending blank text.
	ErrEmptyMessage = errors.New("message text is empty")
)

// User identifies a chat participant.
type User struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// DisplayName returns the nickname, falling back to the ID.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.ID
}

// Message is a single chat message.
type Message struct {
	ID         string    `json:"id"`
	ChannelURL string    `json:"channel_url"`
	Sender     User      `json:"sender"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// GroupChannel is a channel as seen by the current user.
type GroupChannel struct {
	URL                string   `json:"url"`
	Name               string   `json:"name"`
	CustomType         string   `json:"custom_type,omitempty"`
	MemberCount        int      `json:"member_count"`
	UnreadMessageCount int      `json:"unread_message_count"`
	LastMessage        *Message `json:"last_message,omitempty"`
}

// EventType identifies user events.
type EventType string

const (
	// EventTotalUnreadChanged is emitted whenever the total unread count changes.
	EventTotalUnreadChanged EventType = "total_unread_changed"
	// EventMessageReceived is emitted for every new message in any channel.
	EventMessageReceived EventType = "message_received"
)

// Event is a user event delivered to registered handlers.
type Event struct {
	Type               EventType      `json:"type"`
	Timestamp          time.Time      `json:"timestamp"`
	TotalUnread        int            `json:"total_unread,omitempty"`
	UnreadByCustomType map[string]int `json:"unread_by_custom_type"`
	ChannelURL         string         `json:"channel_url,omitempty"`
	ChannelName        string         `json:"channel_name,omitempty"`
	Message            *Message       `json:"message,omitempty"`
}

// Handler receives user events.
type Handler func(Event)

// Client is what the UI needs from a chat backend.
type Client interface {
	CurrentUser() User
	ListChannels(ctx context.Context) ([]GroupChannel, error)
	GetChannel(ctx context.Context, channelURL string) (GroupChannel, error)
	ListMessages(ctx context.Context, channelURL string, limit int) ([]Message, error)
	SendMessage(ctx context.Context, channelURL, text string) (Message, error)
	MarkAsRead(ctx context.Context, channelURL string) error
	TotalUnreadMessageCount(ctx context.Context) (int, error)
	// AddUserEventHandler registers handler under key. The returned
	// subscription must be cancelled to deregister.
	AddUserEventHandler(key string, handler Handler) (*Subscription, error)
	Close() error
}

// UnreadByCustomType sums unread counts per channel custom type. Channels
// without unread messages are left out; the empty custom type is kept.
func UnreadByCustomType(channels []GroupChannel) map[string]int {
	byType := make(map[string]int)
	for _, ch := range channels {
		if ch.UnreadMessageCount > 0 {
			byType[ch.CustomType] += ch.UnreadMessageCount
		}
	}
	return byType
}
