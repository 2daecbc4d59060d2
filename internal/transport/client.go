package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"grouptalk/internal/chat"
	"grouptalk/pkg/logging"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

const clientSubsystem = "ChatClient"

const (
	defaultRequestTimeout = 10 * time.Second
	minReconnectDelay     = 500 * time.Millisecond
	maxReconnectDelay     = 15 * time.Second
)

// Client is a chat.Client backed by a remote Server. Events read from the
// websocket are re-published on a local hub so handler semantics match the
// in-memory store.
type Client struct {
	baseURL string
	http    *http.Client
	dialer  *websocket.Dialer
	user    chat.User
	hub     *chat.Hub

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ chat.Client = (*Client)(nil)

// Dial connects to a server at baseURL (http:// or https://), fetches the
// signed-in user and opens the event stream.
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		dialer:  websocket.DefaultDialer,
		hub:     chat.NewHub(chat.DefaultBufferSize),
	}

	if err := c.do(ctx, http.MethodGet, "/me", nil, &c.user); err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	conn, err := c.dialEvents(ctx)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.conn = conn
	c.cancel = cancel
	c.wg.Add(1)
	go c.readLoop(loopCtx, conn)
	return c, nil
}

func (c *Client) eventsURL() string {
	wsURL := c.baseURL + apiPrefix + "/events"
	if strings.HasPrefix(wsURL, "https://") {
		return "wss://" + strings.TrimPrefix(wsURL, "https://")
	}
	return "ws://" + strings.TrimPrefix(wsURL, "http://")
}

func (c *Client) dialEvents(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.eventsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	return conn, nil
}

// readLoop publishes incoming events and reconnects with backoff until the
// client is closed.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		for {
			var evt chat.Event
			if err := conn.ReadJSON(&evt); err != nil {
				if ctx.Err() == nil {
					logging.Warn(clientSubsystem, "event stream interrupted: %v", err)
				}
				break
			}
			// Unread updates are ordered against pull queries, which use the
			// local clock.
			evt.Timestamp = time.Now()
			c.hub.Publish(evt)
		}
		_ = conn.Close()

		next, err := c.reconnect(ctx)
		if err != nil {
			return
		}
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = next.Close()
			return
		}
		c.conn = next
		c.mu.Unlock()
		conn = next
		logging.Info(clientSubsystem, "event stream reconnected")
		c.resync(ctx)
	}
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = minReconnectDelay
	bo.MaxInterval = maxReconnectDelay
	bo.MaxElapsedTime = 0
	return backoff.WithContext(bo, ctx)
}

// reconnect dials the event stream until it succeeds or ctx is done.
func (c *Client) reconnect(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	err := backoff.RetryNotify(func() error {
		next, err := c.dialEvents(ctx)
		if err != nil {
			return err
		}
		conn = next
		return nil
	}, c.newBackOff(ctx), func(err error, wait time.Duration) {
		logging.Debug(clientSubsystem, "reconnect failed, retrying in %s: %v", wait, err)
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// resync publishes the current unread state after a reconnect, since events
// sent while the stream was down are lost.
func (c *Client) resync(ctx context.Context) {
	observed := time.Now()
	qctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	channels, err := c.ListChannels(qctx)
	if err != nil {
		logging.Debug(clientSubsystem, "resync after reconnect failed: %v", err)
		return
	}
	total := 0
	for _, ch := range channels {
		total += ch.UnreadMessageCount
	}
	c.hub.Publish(chat.Event{
		Type:               chat.EventTotalUnreadChanged,
		Timestamp:          observed,
		TotalUnread:        total,
		UnreadByCustomType: chat.UnreadByCustomType(channels),
	})
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return statusError(resp.StatusCode, e.Error)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError maps server responses back onto the chat sentinel errors.
func statusError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", chat.ErrChannelNotFound, msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", chat.ErrClosed, msg)
	case http.StatusBadRequest:
		if strings.Contains(msg, chat.ErrEmptyMessage.Error()) {
			return chat.ErrEmptyMessage
		}
	}
	return fmt.Errorf("server returned %d: %s", status, msg)
}

func channelPath(channelURL string, suffix string) string {
	return "/channels/" + url.PathEscape(channelURL) + suffix
}

// CurrentUser returns the signed-in user.
func (c *Client) CurrentUser() chat.User {
	return c.user
}

// ListChannels fetches all channels.
func (c *Client) ListChannels(ctx context.Context) ([]chat.GroupChannel, error) {
	var out []chat.GroupChannel
	if err := c.do(ctx, http.MethodGet, "/channels", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChannel fetches one channel.
func (c *Client) GetChannel(ctx context.Context, channelURL string) (chat.GroupChannel, error) {
	var out chat.GroupChannel
	err := c.do(ctx, http.MethodGet, channelPath(channelURL, ""), nil, &out)
	return out, err
}

// ListMessages fetches recent messages.
func (c *Client) ListMessages(ctx context.Context, channelURL string, limit int) ([]chat.Message, error) {
	path := channelPath(channelURL, "/messages")
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []chat.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message as the current user.
func (c *Client) SendMessage(ctx context.Context, channelURL, text string) (chat.Message, error) {
	var out chat.Message
	err := c.do(ctx, http.MethodPost, channelPath(channelURL, "/messages"), sendRequest{Text: text}, &out)
	return out, err
}

// MarkAsRead resets a channel's unread count.
func (c *Client) MarkAsRead(ctx context.Context, channelURL string) error {
	return c.do(ctx, http.MethodPost, channelPath(channelURL, "/read"), nil, nil)
}

// TotalUnreadMessageCount queries the total unread count.
func (c *Client) TotalUnreadMessageCount(ctx context.Context) (int, error) {
	var out unreadResponse
	if err := c.do(ctx, http.MethodGet, "/unread", nil, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// AddUserEventHandler registers handler on the local event hub.
func (c *Client) AddUserEventHandler(key string, handler chat.Handler) (*chat.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return c.hub.Subscribe(key, handler)
}

// Close stops the event stream and cancels all handlers.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = conn.Close()
	}
	c.wg.Wait()
	c.hub.Close()
	return err
}
