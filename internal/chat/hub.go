package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBufferSize is the per-subscription event buffer.
const DefaultBufferSize = 64

// Subscription is a registered user event handler.
type Subscription struct {
	Key string

	hub     *Hub
	handler Handler
	events  chan Event
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Cancel deregisters the subscription. It is synchronous: once it returns no
// further handler calls start, and any in-flight call has finished. Calling
// it more than once is a no-op. It must not be called from inside the
// subscription's own handler.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.hub != nil {
			s.hub.remove(s)
		}
		close(s.stop)
		<-s.done
	})
}

// IsCancelled reports whether Cancel has run.
func (s *Subscription) IsCancelled() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *Subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case evt := <-s.events:
			select {
			case <-s.stop:
				return
			default:
			}
			s.handler(evt)
		}
	}
}

// HubMetrics tracks hub activity.
type HubMetrics struct {
	TotalSubscriptions  int
	ActiveSubscriptions int
	EventsPublished     int64
	EventsDelivered     int64
	EventsDropped       int64
	LastEventTime       time.Time
}

// Hub is an in-process dispatcher for user events. Each subscription gets its
// own buffered queue and goroutine so handlers see events in publish order.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	metrics       HubMetrics
	bufferSize    int
	closed        bool
}

// NewHub creates an empty hub. bufferSize <= 0 selects DefaultBufferSize.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subscriptions: make(map[string]*Subscription),
		bufferSize:    bufferSize,
	}
}

// NewHandlerKey returns a fresh unique handler key.
func NewHandlerKey(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// Subscribe registers handler under key. An empty key is replaced with a
// generated one.
func (h *Hub) Subscribe(key string, handler Handler) (*Subscription, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = NewHandlerKey("")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if _, exists := h.subscriptions[key]; exists {
		return nil, ErrDuplicateHandlerKey
	}

	sub := &Subscription{
		Key:     key,
		hub:     h,
		handler: handler,
		events:  make(chan Event, h.bufferSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	h.subscriptions[key] = sub
	h.metrics.TotalSubscriptions++
	h.metrics.ActiveSubscriptions++

	go sub.run()
	return sub, nil
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.subscriptions[sub.Key]; ok && current == sub {
		delete(h.subscriptions, sub.Key)
		h.metrics.ActiveSubscriptions--
	}
}

// Publish queues evt for every subscription. Slow subscribers lose events
// rather than block the publisher.
func (h *Hub) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	delivered, dropped := 0, 0
	for _, sub := range h.subscriptions {
		select {
		case sub.events <- evt:
			delivered++
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	h.mu.Lock()
	h.metrics.EventsPublished++
	h.metrics.EventsDelivered += int64(delivered)
	h.metrics.EventsDropped += int64(dropped)
	h.metrics.LastEventTime = evt.Timestamp
	h.mu.Unlock()
}

// Metrics returns a snapshot of the hub metrics.
func (h *Hub) Metrics() HubMetrics {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.metrics
}

// Close cancels every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
