package sync

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Defaults for the reconnect policy.
const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultMaxReconnects  = 5
)

// Conn is the subset of *websocket.Conn the session uses. Tests substitute
// in-memory implementations.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens a WebSocket connection to the hub's event feed.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// gorillaDialer adapts websocket.Dialer to the Dialer interface.
type gorillaDialer struct {
	d *websocket.Dialer
}

func (g gorillaDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := g.d.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// NewDialer returns the production dialer backed by gorilla/websocket.
func NewDialer() Dialer {
	return gorillaDialer{d: websocket.DefaultDialer}
}

// clientFrame is the only outbound message shape on the socket.
type clientFrame struct {
	Type string `json:"type"`
}

// connManager maintains exactly one live socket for a session. It exposes two
// signals upward: the connected flag (through the store) and raw inbound
// frames (through onFrame). On close or error it schedules a reconnect after
// a fixed delay unless the bounded attempt counter is exhausted; the counter
// resets on every successful open. After retries run out it gives up
// silently and the reconciler's polling carries the session.
type connManager struct {
	url         string
	dialer      Dialer
	delay       time.Duration
	maxAttempts int
	store       *Store
	onFrame     func([]byte)
	logger      *log.Logger
}

func newConnManager(url string, dialer Dialer, store *Store, onFrame func([]byte), logger *log.Logger) *connManager {
	return &connManager{
		url:         url,
		dialer:      dialer,
		delay:       DefaultReconnectDelay,
		maxAttempts: DefaultMaxReconnects,
		store:       store,
		onFrame:     onFrame,
		logger:      logger,
	}
}

// run dials and reads until ctx is cancelled or retries are exhausted.
// Frames are dispatched synchronously from the single read loop, so handlers
// observe them strictly in arrival order.
func (c *connManager) run(ctx context.Context) {
	for {
		conn, err := c.dialer.Dial(ctx, c.url)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("websocket dial failed", "url", c.url, "error", err)
			if !c.backoff(ctx) {
				return
			}
			continue
		}

		c.store.SetConnected(true)
		c.logger.Info("websocket connected", "url", c.url)

		if err := conn.WriteJSON(clientFrame{Type: "subscribe-progress"}); err != nil {
			c.logger.Warn("failed to subscribe to progress", "error", err)
		}

		c.readLoop(ctx, conn)
		c.store.SetConnected(false)

		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("websocket closed")
		if !c.backoff(ctx) {
			return
		}
	}
}

// readLoop pumps frames until the connection drops or ctx is cancelled.
// On cancellation the subscription is released before the socket closes and
// no further frames are dispatched.
func (c *connManager) readLoop(ctx context.Context, conn Conn) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteJSON(clientFrame{Type: "unsubscribe-progress"})
			conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.onFrame(data)
	}
}

// backoff waits out the reconnect delay. Returns false when the attempt
// budget is spent or ctx is cancelled.
func (c *connManager) backoff(ctx context.Context) bool {
	attempts := c.store.RecordReconnectAttempt()
	if attempts > c.maxAttempts {
		c.logger.Warn("reconnect attempts exhausted, falling back to polling", "attempts", c.maxAttempts)
		return false
	}

	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
