package model

import (
	"context"
	"fmt"
	"time"

	"grouptalk/internal/chat"
	"grouptalk/internal/unread"
	"grouptalk/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
)

const commandTimeout = 10 * time.Second

// ChannelReaderCmd returns a Bubbletea command that forwards messages from the given channel.
func ChannelReaderCmd(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// ListenForLogEntriesCmd waits for the next log entry. It returns nil once
// the log channel is closed.
func ListenForLogEntriesCmd(logChan <-chan logging.LogEntry) tea.Cmd {
	if logChan == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-logChan
		if !ok {
			return nil
		}
		return NewLogEntryMsg{Entry: entry}
	}
}

// UnreadSink forwards binding updates into the TUI message channel.
func UnreadSink(ch chan<- tea.Msg) unread.Sink {
	return func(ctx context.Context, u unread.Update) {
		select {
		case ch <- UnreadCountMsg{Update: u}:
		case <-ctx.Done():
		}
	}
}

// FeedHandler forwards message-received events into the TUI message channel
// until ctx is cancelled.
func FeedHandler(ctx context.Context, ch chan<- tea.Msg) chat.Handler {
	return func(evt chat.Event) {
		if evt.Type != chat.EventMessageReceived {
			return
		}
		select {
		case ch <- IncomingMessageMsg{Event: evt}:
		case <-ctx.Done():
		}
	}
}

func LoadChannelsCmd(client chat.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		channels, err := client.ListChannels(ctx)
		return ChannelsLoadedMsg{Channels: channels, Err: err}
	}
}

// OpenChannelCmd fetches a channel with its recent history and marks it read.
func OpenChannelCmd(client chat.Client, channelURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		ch, err := client.GetChannel(ctx, channelURL)
		if err != nil {
			return ChannelOpenedMsg{ChannelURL: channelURL, Err: err}
		}
		msgs, err := client.ListMessages(ctx, channelURL, MessageHistoryLimit)
		if err != nil {
			return ChannelOpenedMsg{ChannelURL: channelURL, Err: fmt.Errorf("failed to load messages: %w", err)}
		}
		if err := client.MarkAsRead(ctx, channelURL); err != nil {
			logging.Warn("Commands", "mark %s read: %v", channelURL, err)
		}
		ch.UnreadMessageCount = 0
		return ChannelOpenedMsg{ChannelURL: channelURL, Channel: ch, Messages: msgs}
	}
}

func SendMessageCmd(client chat.Client, channelURL, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		msg, err := client.SendMessage(ctx, channelURL, text)
		return MessageSentMsg{ChannelURL: channelURL, Message: msg, Err: err}
	}
}

func MarkReadCmd(client chat.Client, channelURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return MarkedReadMsg{ChannelURL: channelURL, Err: client.MarkAsRead(ctx, channelURL)}
	}
}
