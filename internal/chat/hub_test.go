package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T) (Handler, func() []Event) {
	t.Helper()
	var mu sync.Mutex
	var got []Event
	handler := func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	}
	return handler, func() []Event {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Event, len(got))
		copy(out, got)
		return out
	}
}

func TestHub_SubscribeAndPublishInOrder(t *testing.T) {
	hub := NewHub(16)
	handler, events := collect(t)

	sub, err := hub.Subscribe("screen-1", handler)
	require.NoError(t, err)
	defer sub.Cancel()

	for i := 1; i <= 5; i++ {
		hub.Publish(Event{Type: EventTotalUnreadChanged, TotalUnread: i})
	}

	require.Eventually(t, func() bool { return len(events()) == 5 }, time.Second, 5*time.Millisecond)
	for i, e := range events() {
		assert.Equal(t, i+1, e.TotalUnread)
		assert.False(t, e.Timestamp.IsZero())
	}

	m := hub.Metrics()
	assert.Equal(t, 1, m.ActiveSubscriptions)
	assert.Equal(t, int64(5), m.EventsPublished)
	assert.Equal(t, int64(5), m.EventsDelivered)
}

func TestHub_DuplicateKeyRejected(t *testing.T) {
	hub := NewHub(0)
	sub, err := hub.Subscribe("same", func(Event) {})
	require.NoError(t, err)
	defer sub.Cancel()

	_, err = hub.Subscribe("same", func(Event) {})
	assert.ErrorIs(t, err, ErrDuplicateHandlerKey)
}

func TestHub_EmptyKeyGenerated(t *testing.T) {
	hub := NewHub(0)
	a, err := hub.Subscribe("", func(Event) {})
	require.NoError(t, err)
	b, err := hub.Subscribe("  ", func(Event) {})
	require.NoError(t, err)
	defer a.Cancel()
	defer b.Cancel()

	assert.NotEmpty(t, a.Key)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestSubscription_CancelIsSynchronousAndIdempotent(t *testing.T) {
	hub := NewHub(16)
	handler, events := collect(t)
	sub, err := hub.Subscribe("k", handler)
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel()
	assert.True(t, sub.IsCancelled())

	hub.Publish(Event{Type: EventTotalUnreadChanged, TotalUnread: 3})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, events())
	assert.Equal(t, 0, hub.Metrics().ActiveSubscriptions)

	// Key is free again.
	again, err := hub.Subscribe("k", func(Event) {})
	require.NoError(t, err)
	again.Cancel()
}

func TestSubscription_CancelWaitsForInFlightHandler(t *testing.T) {
	hub := NewHub(4)
	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool
	var mu sync.Mutex

	sub, err := hub.Subscribe("slow", func(Event) {
		close(started)
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	})
	require.NoError(t, err)

	hub.Publish(Event{Type: EventTotalUnreadChanged})
	<-started

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	sub.Cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, finished)
}

func TestHub_DropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(1)
	block := make(chan struct{})
	sub, err := hub.Subscribe("blocked", func(Event) { <-block })
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		hub.Publish(Event{Type: EventTotalUnreadChanged, TotalUnread: i})
	}
	close(block)
	sub.Cancel()

	assert.Positive(t, hub.Metrics().EventsDropped)
}

func TestHub_CloseCancelsAll(t *testing.T) {
	hub := NewHub(0)
	a, _ := hub.Subscribe("a", func(Event) {})
	b, _ := hub.Subscribe("b", func(Event) {})

	hub.Close()

	assert.True(t, a.IsCancelled())
	assert.True(t, b.IsCancelled())
	_, err := hub.Subscribe("c", func(Event) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewHandlerKey(t *testing.T) {
	k1 := NewHandlerKey("main")
	k2 := NewHandlerKey("main")
	assert.NotEqual(t, k1, k2)
	assert.Contains(t, k1, "main-")
}
