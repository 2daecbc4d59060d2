package unread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"grouptalk/internal/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recorder) sink(_ context.Context, u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) snapshot() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Update, len(r.updates))
	copy(out, r.updates)
	return out
}

type failingSource struct {
	*chat.Store
}

func (failingSource) TotalUnreadMessageCount(context.Context) (int, error) {
	return 0, errors.New("offline")
}

func newStore(t *testing.T) (*chat.Store, chat.GroupChannel) {
	t.Helper()
	s := chat.NewStore(chat.User{ID: "me"})
	t.Cleanup(func() { _ = s.Close() })
	ch, err := s.CreateChannel("General", "", 2)
	require.NoError(t, err)
	return s, ch
}

func TestBinding_ResumePullsOnce(t *testing.T) {
	s, ch := newStore(t)
	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "hi")

	rec := &recorder{}
	b := NewBinding(s, rec.sink)
	require.NoError(t, b.Resume(context.Background()))
	defer b.Pause()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	u := rec.snapshot()[0]
	assert.Equal(t, OriginPull, u.Origin)
	assert.Equal(t, 1, u.Count)
	assert.Equal(t, b.Token(), u.Token)
}

func TestBinding_PullCarriesBreakdown(t *testing.T) {
	s, ch := newStore(t)
	support, err := s.CreateChannel("Support", "support", 2)
	require.NoError(t, err)
	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "hi")
	_, _ = s.Receive(support.URL, chat.User{ID: "alice"}, "help")
	_, _ = s.Receive(support.URL, chat.User{ID: "bob"}, "help!")

	rec := &recorder{}
	b := NewBinding(s, rec.sink)
	require.NoError(t, b.Resume(context.Background()))
	defer b.Pause()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	u := rec.snapshot()[0]
	assert.Equal(t, 3, u.Count)
	assert.Equal(t, map[string]int{"": 1, "support": 2}, u.ByCustomType)
}

func TestBinding_PushUpdatesWhileActive(t *testing.T) {
	s, ch := newStore(t)
	rec := &recorder{}
	b := NewBinding(s, rec.sink)
	require.NoError(t, b.Resume(context.Background()))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "one")
	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "two")

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	ups := rec.snapshot()
	assert.Equal(t, OriginPush, ups[1].Origin)
	assert.Equal(t, 1, ups[1].Count)
	assert.Equal(t, 2, ups[2].Count)

	b.Pause()
	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "three")
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 3)
}

func TestBinding_ResumeIsPairedOncePerCycle(t *testing.T) {
	s, _ := newStore(t)
	rec := &recorder{}
	b := NewBinding(s, rec.sink)

	require.NoError(t, b.Resume(context.Background()))
	first := b.Token()
	require.NoError(t, b.Resume(context.Background()))
	assert.Equal(t, first, b.Token())
	assert.Equal(t, 1, s.Hub().Metrics().ActiveSubscriptions)

	b.Pause()
	b.Pause()
	assert.False(t, b.Active())
	assert.Empty(t, b.Token())
	assert.Equal(t, 0, s.Hub().Metrics().ActiveSubscriptions)

	require.NoError(t, b.Resume(context.Background()))
	defer b.Pause()
	assert.NotEqual(t, first, b.Token())
}

func TestBinding_TwoScreensDoNotClobber(t *testing.T) {
	s, ch := newStore(t)
	recA, recB := &recorder{}, &recorder{}
	a := NewBinding(s, recA.sink, WithKeyPrefix("main"))
	b := NewBinding(s, recB.sink, WithKeyPrefix("main"))

	require.NoError(t, a.Resume(context.Background()))
	require.NoError(t, b.Resume(context.Background()))
	assert.NotEqual(t, a.Token(), b.Token())

	a.Pause()
	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "hi")

	require.Eventually(t, func() bool {
		for _, u := range recB.snapshot() {
			if u.Origin == OriginPush {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	b.Pause()
}

func TestBinding_FailedPullIsIgnored(t *testing.T) {
	s, ch := newStore(t)
	rec := &recorder{}
	b := NewBinding(failingSource{s}, rec.sink)
	require.NoError(t, b.Resume(context.Background()))
	defer b.Pause()

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "hi")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, OriginPush, rec.snapshot()[0].Origin)
}

func TestBinding_ResumeErrorLeavesInactive(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Close())

	b := NewBinding(s, func(context.Context, Update) {})
	err := b.Resume(context.Background())
	assert.ErrorIs(t, err, chat.ErrClosed)
	assert.False(t, b.Active())
}

func TestBinding_PauseUnblocksSlowSink(t *testing.T) {
	s, ch := newStore(t)
	blocked := make(chan struct{}, 1)
	sink := func(ctx context.Context, u Update) {
		if u.Origin == OriginPull {
			return
		}
		blocked <- struct{}{}
		<-ctx.Done()
	}
	b := NewBinding(s, sink)
	require.NoError(t, b.Resume(context.Background()))

	_, _ = s.Receive(ch.URL, chat.User{ID: "alice"}, "hi")
	<-blocked

	done := make(chan struct{})
	go func() {
		b.Pause()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pause did not return")
	}
}

func TestOrigin_String(t *testing.T) {
	assert.Equal(t, "pull", OriginPull.String())
	assert.Equal(t, "push", OriginPush.String())
}
