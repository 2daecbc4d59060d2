package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const storeSubsystem = "ChatStore"

type channelState struct {
	channel  GroupChannel
	messages []Message
}

// Store is an in-memory chat backend for a single signed-in user.
type Store struct {
	mu sync.RWMutex
	// pubMu keeps unread events in the order their snapshots were taken.
	pubMu    sync.Mutex
	user     User
	channels map[string]*channelState
	hub      *Hub
	now      func() time.Time
	closed   bool
}

var _ Client = (*Store)(nil)

// NewStore creates an empty store for user.
func NewStore(user User) *Store {
	return &Store{
		user:     user,
		channels: make(map[string]*channelState),
		hub:      NewHub(DefaultBufferSize),
		now:      time.Now,
	}
}

// CurrentUser returns the signed-in user.
func (s *Store) CurrentUser() User {
	return s.user
}

// Hub exposes the event hub, mainly for metrics.
func (s *Store) Hub() *Hub {
	return s.hub
}

// CreateChannel adds a channel. An empty URL gets a generated one.
func (s *Store) CreateChannel(name, customType string, memberCount int) (GroupChannel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GroupChannel{}, fmt.Errorf("channel name is required")
	}
	url := "group_channel_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return s.addChannel(GroupChannel{URL: url, Name: name, CustomType: customType, MemberCount: memberCount})
}

func (s *Store) addChannel(ch GroupChannel) (GroupChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return GroupChannel{}, ErrClosed
	}
	if _, exists := s.channels[ch.URL]; exists {
		return GroupChannel{}, fmt.Errorf("channel %q already exists", ch.URL)
	}
	s.channels[ch.URL] = &channelState{channel: ch}
	return ch, nil
}

// ListChannels returns channels ordered by most recent activity, then name.
func (s *Store) ListChannels(ctx context.Context) ([]GroupChannel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]GroupChannel, 0, len(s.channels))
	for _, st := range s.channels {
		out = append(out, st.snapshot())
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := lastActivity(out[i]), lastActivity(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func lastActivity(ch GroupChannel) time.Time {
	if ch.LastMessage == nil {
		return time.Time{}
	}
	return ch.LastMessage.CreatedAt
}

func (st *channelState) snapshot() GroupChannel {
	ch := st.channel
	if n := len(st.messages); n > 0 {
		last := st.messages[n-1]
		ch.LastMessage = &last
	}
	return ch
}

// GetChannel returns one channel.
func (s *Store) GetChannel(ctx context.Context, channelURL string) (GroupChannel, error) {
	if err := ctx.Err(); err != nil {
		return GroupChannel{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.channels[channelURL]
	if !ok {
		return GroupChannel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelURL)
	}
	return st.snapshot(), nil
}

// ListMessages returns up to limit most recent messages, oldest first.
// limit <= 0 returns everything.
func (s *Store) ListMessages(ctx context.Context, channelURL string, limit int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.channels[channelURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelURL)
	}
	msgs := st.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// SendMessage posts a message as the current user.
func (s *Store) SendMessage(ctx context.Context, channelURL, text string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	return s.post(channelURL, s.user, text)
}

// Receive posts a message from another member, raising the unread count.
// This is how the demo simulator and the server's inject endpoint feed
// incoming traffic.
func (s *Store) Receive(channelURL string, sender User, text string) (Message, error) {
	return s.post(channelURL, sender, text)
}

func (s *Store) post(channelURL string, sender User, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, ErrClosed
	}
	st, ok := s.channels[channelURL]
	if !ok {
		s.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelURL)
	}
	msg := Message{
		ID:         uuid.NewString(),
		ChannelURL: channelURL,
		Sender:     sender,
		Text:       text,
		CreatedAt:  s.now(),
	}
	st.messages = append(st.messages, msg)
	incoming := sender.ID != s.user.ID
	if incoming {
		st.channel.UnreadMessageCount++
	}
	channelName := st.channel.Name
	total, byType := s.unreadLocked()
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()

	s.hub.Publish(Event{
		Type:        EventMessageReceived,
		Timestamp:   msg.CreatedAt,
		ChannelURL:  channelURL,
		ChannelName: channelName,
		Message:     &msg,
	})
	if incoming {
		s.publishUnread(msg.CreatedAt, total, byType)
	}
	return msg, nil
}

// MarkAsRead resets a channel's unread count.
func (s *Store) MarkAsRead(ctx context.Context, channelURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	st, ok := s.channels[channelURL]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channelURL)
	}
	changed := st.channel.UnreadMessageCount != 0
	st.channel.UnreadMessageCount = 0
	if !changed {
		s.mu.Unlock()
		return nil
	}
	at := s.now()
	total, byType := s.unreadLocked()
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()

	s.publishUnread(at, total, byType)
	return nil
}

// TotalUnreadMessageCount sums unread counts over all channels.
func (s *Store) TotalUnreadMessageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	total, _ := s.unreadLocked()
	return total, nil
}

func (s *Store) unreadLocked() (int, map[string]int) {
	total := 0
	channels := make([]GroupChannel, 0, len(s.channels))
	for _, st := range s.channels {
		total += st.channel.UnreadMessageCount
		channels = append(channels, st.channel)
	}
	return total, UnreadByCustomType(channels)
}

// publishUnread must be called with pubMu held. at is taken under mu together
// with the snapshot so consumers can order events by time.
func (s *Store) publishUnread(at time.Time, total int, byType map[string]int) {
	s.hub.Publish(Event{
		Type:               EventTotalUnreadChanged,
		Timestamp:          at,
		TotalUnread:        total,
		UnreadByCustomType: byType,
	})
}

// AddUserEventHandler registers a user event handler.
func (s *Store) AddUserEventHandler(key string, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return s.hub.Subscribe(key, handler)
}

// Close shuts down the event hub.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.hub.Close()
	return nil
}
