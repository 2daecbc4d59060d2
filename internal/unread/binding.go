// Package unread keeps a screen's unread badge fed while the screen is
// visible.
//
// A Binding pairs one subscription to total-unread-changed events with one
// pull query per visible period. Resume starts both, Pause cancels them.
// Results are handed to a Sink, which is responsible for moving them onto
// the UI loop.
package unread

import (
	"context"
	"sync"
	"time"

	"grouptalk/internal/chat"
	"grouptalk/pkg/logging"
)

const subsystem = "Unread"

// DefaultPullTimeout bounds the one-shot count query issued on Resume.
const DefaultPullTimeout = 5 * time.Second

// Origin says how an update was obtained.
type Origin int

const (
	OriginPull Origin = iota
	OriginPush
)

func (o Origin) String() string {
	if o == OriginPush {
		return "push"
	}
	return "pull"
}

// Update is a new total unread count.
type Update struct {
	Count int
	// ByCustomType is the full breakdown at ObservedAt; it replaces any
	// earlier one.
	ByCustomType map[string]int
	Origin       Origin
	// ObservedAt is when the count was true: the event time for pushes and
	// the query start for pulls. Consumers drop updates older than the last
	// one they applied.
	ObservedAt time.Time
	Token      string
}

// Source is the part of chat.Client a Binding needs.
type Source interface {
	TotalUnreadMessageCount(ctx context.Context) (int, error)
	AddUserEventHandler(key string, handler chat.Handler) (*chat.Subscription, error)
}

// channelLister is implemented by sources that can also report the per
// custom type breakdown on a pull.
type channelLister interface {
	ListChannels(ctx context.Context) ([]chat.GroupChannel, error)
}

// Sink receives updates. ctx is cancelled when the binding pauses, so a sink
// blocked on a full queue must give up when ctx is done.
type Sink func(ctx context.Context, u Update)

// Binding ties a Source to a Sink for the visible lifetime of a screen.
type Binding struct {
	source      Source
	sink        Sink
	keyPrefix   string
	pullTimeout time.Duration
	now         func() time.Time

	mu     sync.Mutex
	sub    *chat.Subscription
	token  string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Binding.
type Option func(*Binding)

// WithKeyPrefix prefixes generated handler keys, which helps when reading logs.
func WithKeyPrefix(prefix string) Option {
	return func(b *Binding) { b.keyPrefix = prefix }
}

// WithPullTimeout overrides DefaultPullTimeout.
func WithPullTimeout(d time.Duration) Option {
	return func(b *Binding) {
		if d > 0 {
			b.pullTimeout = d
		}
	}
}

// NewBinding creates an inactive binding.
func NewBinding(source Source, sink Sink, opts ...Option) *Binding {
	b := &Binding{
		source:      source,
		sink:        sink,
		keyPrefix:   "unread",
		pullTimeout: DefaultPullTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Active reports whether the binding is currently subscribed.
func (b *Binding) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub != nil
}

// Token returns the handler key of the current subscription, or "".
func (b *Binding) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

// Resume subscribes under a fresh token and starts one pull query. Calling
// Resume on an active binding does nothing.
func (b *Binding) Resume(parent context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(parent)
	token := chat.NewHandlerKey(b.keyPrefix)

	sub, err := b.source.AddUserEventHandler(token, func(evt chat.Event) {
		if evt.Type != chat.EventTotalUnreadChanged {
			return
		}
		if ctx.Err() != nil {
			return
		}
		b.sink(ctx, Update{
			Count:        evt.TotalUnread,
			ByCustomType: evt.UnreadByCustomType,
			Origin:       OriginPush,
			ObservedAt:   evt.Timestamp,
			Token:        token,
		})
	})
	if err != nil {
		cancel()
		return err
	}

	b.sub = sub
	b.token = token
	b.cancel = cancel
	logging.Debug(subsystem, "subscribed %s", token)

	b.wg.Add(1)
	go b.pull(ctx, token)
	return nil
}

func (b *Binding) pull(ctx context.Context, token string) {
	defer b.wg.Done()

	started := b.now()
	qctx, cancel := context.WithTimeout(ctx, b.pullTimeout)
	defer cancel()

	count, err := b.source.TotalUnreadMessageCount(qctx)
	if err != nil {
		// Best effort: the badge keeps its last known state.
		logging.Debug(subsystem, "pull for %s failed: %v", token, err)
		return
	}
	byType := map[string]int{}
	if lister, ok := b.source.(channelLister); ok {
		channels, err := lister.ListChannels(qctx)
		if err != nil {
			logging.Debug(subsystem, "pull breakdown for %s failed: %v", token, err)
			return
		}
		byType = chat.UnreadByCustomType(channels)
	}
	if ctx.Err() != nil {
		return
	}
	b.sink(ctx, Update{
		Count:        count,
		ByCustomType: byType,
		Origin:       OriginPull,
		ObservedAt:   started,
		Token:        token,
	})
}

// Pause cancels the subscription and any outstanding pull. It returns after
// the sink has stopped being called. Pausing an inactive binding does
// nothing.
func (b *Binding) Pause() {
	b.mu.Lock()
	sub, cancel, token := b.sub, b.cancel, b.token
	b.sub, b.cancel, b.token = nil, nil, ""
	b.mu.Unlock()

	if sub == nil {
		return
	}
	cancel()
	sub.Cancel()
	b.wg.Wait()
	logging.Debug(subsystem, "unsubscribed %s", token)
}
