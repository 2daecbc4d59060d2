package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var me = User{ID: "me", Nickname: "Me"}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(me)
	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ReceiveRaisesUnread(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ch, err := s.CreateChannel("General", "", 3)
	require.NoError(t, err)

	_, err = s.Receive(ch.URL, User{ID: "alice"}, "hi")
	require.NoError(t, err)
	_, err = s.Receive(ch.URL, User{ID: "bob"}, "hello")
	require.NoError(t, err)

	total, err := s.TotalUnreadMessageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	got, err := s.GetChannel(ctx, ch.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UnreadMessageCount)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, "hello", got.LastMessage.Text)
}

func TestStore_SendMessageDoesNotRaiseUnread(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ch, _ := s.CreateChannel("General", "", 3)

	msg, err := s.SendMessage(ctx, ch.URL, "  mine  ")
	require.NoError(t, err)
	assert.Equal(t, "mine", msg.Text)
	assert.Equal(t, me, msg.Sender)

	total, _ := s.TotalUnreadMessageCount(ctx)
	assert.Zero(t, total)
}

func TestStore_SendMessageErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ch, _ := s.CreateChannel("General", "", 3)

	_, err := s.SendMessage(ctx, ch.URL, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = s.SendMessage(ctx, "missing", "hi")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestStore_MarkAsReadPublishes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ch, _ := s.CreateChannel("Support", "support", 2)
	_, _ = s.Receive(ch.URL, User{ID: "alice"}, "help")

	var mu sync.Mutex
	var totals []int
	sub, err := s.AddUserEventHandler("test", func(e Event) {
		if e.Type != EventTotalUnreadChanged {
			return
		}
		mu.Lock()
		totals = append(totals, e.TotalUnread)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	require.NoError(t, s.MarkAsRead(ctx, ch.URL))
	// Second call changes nothing and publishes nothing.
	require.NoError(t, s.MarkAsRead(ctx, ch.URL))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(totals) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []int{0}, totals)
	mu.Unlock()

	assert.ErrorIs(t, s.MarkAsRead(ctx, "missing"), ErrChannelNotFound)
}

func TestStore_UnreadByCustomType(t *testing.T) {
	s := newTestStore(t)
	support, _ := s.CreateChannel("Support", "support", 2)
	team, _ := s.CreateChannel("Team", "team", 2)

	events := make(chan Event, 8)
	sub, err := s.AddUserEventHandler("", func(e Event) {
		if e.Type == EventTotalUnreadChanged {
			events <- e
		}
	})
	require.NoError(t, err)
	defer sub.Cancel()

	_, _ = s.Receive(support.URL, User{ID: "a"}, "1")
	_, _ = s.Receive(team.URL, User{ID: "b"}, "2")

	var last Event
	for i := 0; i < 2; i++ {
		select {
		case last = <-events:
		case <-time.After(time.Second):
			t.Fatal("missing unread event")
		}
	}
	assert.Equal(t, 2, last.TotalUnread)
	assert.Equal(t, map[string]int{"support": 1, "team": 1}, last.UnreadByCustomType)
}

func TestStore_UnreadEventsFollowSnapshotOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(me)
	t.Cleanup(func() { _ = s.Close() })
	ch, err := s.CreateChannel("General", "", 2)
	require.NoError(t, err)
	_, err = s.Receive(ch.URL, User{ID: "alice"}, "one")
	require.NoError(t, err)

	var mu sync.Mutex
	var events []Event
	sub, err := s.AddUserEventHandler("", func(e Event) {
		if e.Type == EventTotalUnreadChanged {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}
	})
	require.NoError(t, err)
	defer sub.Cancel()

	// The first clock read (inside MarkAsRead) stalls until a concurrent
	// Receive has been started.
	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var clockMu sync.Mutex
	s.now = func() time.Time {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
		}
		clockMu.Lock()
		defer clockMu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	done := make(chan error, 2)
	go func() { done <- s.MarkAsRead(ctx, ch.URL) }()
	<-entered
	go func() {
		_, err := s.Receive(ch.URL, User{ID: "alice"}, "two")
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	total, err := s.TotalUnreadMessageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, events[0].Timestamp.Before(events[1].Timestamp))
	assert.Equal(t, total, events[1].TotalUnread, "newest event must carry the current total")
}

func TestUnreadByCustomType(t *testing.T) {
	got := UnreadByCustomType([]GroupChannel{
		{URL: "a", CustomType: "support", UnreadMessageCount: 2},
		{URL: "b", CustomType: "support", UnreadMessageCount: 1},
		{URL: "c", CustomType: "", UnreadMessageCount: 4},
		{URL: "d", CustomType: "team", UnreadMessageCount: 0},
	})
	assert.Equal(t, map[string]int{"support": 3, "": 4}, got)
	assert.Empty(t, UnreadByCustomType(nil))
}

func TestStore_ListChannelsOrdersByActivity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a, _ := s.CreateChannel("Alpha", "", 1)
	b, _ := s.CreateChannel("Beta", "", 1)
	_, _ = s.CreateChannel("Gamma", "", 1)

	_, _ = s.Receive(a.URL, User{ID: "x"}, "first")
	_, _ = s.Receive(b.URL, User{ID: "x"}, "second")

	list, err := s.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Beta", list[0].Name)
	assert.Equal(t, "Alpha", list[1].Name)
	assert.Equal(t, "Gamma", list[2].Name)
}

func TestStore_ListMessagesLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ch, _ := s.CreateChannel("General", "", 1)
	for _, txt := range []string{"a", "b", "c"} {
		_, _ = s.SendMessage(ctx, ch.URL, txt)
	}

	msgs, err := s.ListMessages(ctx, ch.URL, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Text)
	assert.Equal(t, "c", msgs[1].Text)

	all, _ := s.ListMessages(ctx, ch.URL, 0)
	assert.Len(t, all, 3)
}

func TestStore_SeedAndSimulator(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Seed())

	list, _ := s.ListChannels(ctx)
	assert.Len(t, list, len(demoChannels))
	before, _ := s.TotalUnreadMessageCount(ctx)
	assert.Equal(t, len(demoChannels), before)

	sim := NewSimulator(s, time.Millisecond, 42)
	msg, err := sim.Step(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, me.ID, msg.Sender.ID)

	after, _ := s.TotalUnreadMessageCount(ctx)
	assert.Equal(t, before+1, after)

	// Seeding twice skips existing channels.
	require.NoError(t, s.Seed())
	list, _ = s.ListChannels(ctx)
	assert.Len(t, list, len(demoChannels))
}

func TestStore_ClosedRejects(t *testing.T) {
	ctx := context.Background()
	s := NewStore(me)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.TotalUnreadMessageCount(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.AddUserEventHandler("k", func(Event) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestStore(t)
	_, err := s.TotalUnreadMessageCount(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice", User{ID: "alice", Nickname: "Alice"}.DisplayName())
	assert.Equal(t, "bob", User{ID: "bob"}.DisplayName())
}
