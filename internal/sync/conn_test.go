package sync

import (
	"context"
	"errors"
	"io"
	gosync "sync"
	"testing"
	"time"

	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// fakeConn is an in-memory Conn fed by a frame channel. Close unblocks any
// pending read.
type fakeConn struct {
	frames chan []byte

	mu     gosync.Mutex
	writes []string

	closed    chan struct{}
	closeOnce gosync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case f, ok := <-c.frames:
		if !ok {
			return 0, nil, io.EOF
		}
		return 1, f, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := v.(clientFrame); ok {
		c.writes = append(c.writes, f.Type)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) sentFrames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

// fakeDialer replays a script of connections; a nil entry is a dial failure.
// Dials past the end of the script keep failing.
type fakeDialer struct {
	mu     gosync.Mutex
	script []*fakeConn
	dials  int
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.dials <= len(d.script) && d.script[d.dials-1] != nil {
		return d.script[d.dials-1], nil
	}
	return nil, shared.ErrHubUnavailable
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func newTestConnManager(d Dialer, store *Store, onFrame func([]byte)) *connManager {
	if onFrame == nil {
		onFrame = func([]byte) {}
	}
	c := newConnManager("ws://hub.local/api/pianobar/ws", d, store, onFrame, shared.NewLogger(nil))
	c.delay = time.Millisecond
	return c
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("connection manager did not stop in time")
	}
}

func TestConnManagerGivesUpAfterBoundedRetries(t *testing.T) {
	store := NewStore()
	dialer := &fakeDialer{} // every dial fails
	c := newTestConnManager(dialer, store, nil)
	c.maxAttempts = 5

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(context.Background())
	}()
	waitDone(t, done)

	// the opening dial plus five retries, then the sixth failure stops it
	if got := dialer.dialCount(); got != 6 {
		t.Errorf("dial count = %d, want 6", got)
	}
	if store.View().Connected {
		t.Error("store should report disconnected")
	}
}

func TestConnManagerResetsCounterOnOpen(t *testing.T) {
	store := NewStore()
	conn := newFakeConn()
	// two failures, a live connection, then permanent failure
	dialer := &fakeDialer{script: []*fakeConn{nil, nil, conn}}
	c := newTestConnManager(dialer, store, nil)
	c.maxAttempts = 5

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(context.Background())
	}()

	// wait for the live connection, then observe the reset counter
	deadline := time.After(5 * time.Second)
	for store.View().ReconnectAttempts != 0 || !store.View().Connected {
		select {
		case <-deadline:
			t.Fatal("never saw a connected store with a reset counter")
		case <-time.After(time.Millisecond):
		}
	}

	// drop the connection: the full retry budget is available again
	conn.Close()
	waitDone(t, done)

	// 3 dials to connect, then the drop and five failed redials spend the
	// budget again
	if got := dialer.dialCount(); got != 8 {
		t.Errorf("dial count = %d, want 8", got)
	}
}

func TestConnManagerSubscribesOnOpen(t *testing.T) {
	store := NewStore()
	conn := newFakeConn()
	dialer := &fakeDialer{script: []*fakeConn{conn}}
	c := newTestConnManager(dialer, store, nil)
	c.maxAttempts = 1

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for !store.View().Connected {
		select {
		case <-deadline:
			t.Fatal("never connected")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	waitDone(t, done)

	frames := conn.sentFrames()
	if len(frames) < 2 || frames[0] != "subscribe-progress" || frames[len(frames)-1] != "unsubscribe-progress" {
		t.Errorf("sent frames = %v, want subscribe first and unsubscribe last", frames)
	}
}

func TestConnManagerDispatchesFramesInOrder(t *testing.T) {
	store := NewStore()
	conn := newFakeConn()
	dialer := &fakeDialer{script: []*fakeConn{conn}}

	got := make(chan string, 16)
	c := newTestConnManager(dialer, store, func(raw []byte) { got <- string(raw) })
	c.maxAttempts = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(ctx)
	}()

	for _, f := range []string{"one", "two", "three"} {
		conn.frames <- []byte(f)
	}

	for _, want := range []string{"one", "two", "three"} {
		select {
		case frame := <-got:
			if frame != want {
				t.Errorf("frame = %q, want %q", frame, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for frame %q", want)
		}
	}

	cancel()
	waitDone(t, done)
}
