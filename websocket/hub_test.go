// file: websocket/hub_test.go
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn blocks in ReadMessage until closed and records text frames.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  chan struct{}
	once    sync.Once
	frames  chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{}), frames: make(chan []byte, 8)}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType != websocket.TextMessage {
		return nil
	}
	f.mu.Lock()
	f.written = append(f.written, data)
	f.mu.Unlock()
	f.frames <- data
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
}

func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetPongHandler(func(string) error) {}

type gaugeRecorder struct {
	mu     sync.Mutex
	values []float64
}

func (g *gaugeRecorder) Count(string) {}
func (g *gaugeRecorder) Gauge(_ string, v float64) {
	g.mu.Lock()
	g.values = append(g.values, v)
	g.mu.Unlock()
}

func TestHub_FeedsChangedReachesViewers(t *testing.T) {
	// Given: a running hub with two viewers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	a, b := newFakeConn(), newFakeConn()
	hub.Attach(a)
	hub.Attach(b)
	require.Equal(t, 2, hub.Count())

	// When: a feed is created
	hub.FeedsChanged(ChangeCreated, "feed-1")

	// Then: both viewers receive the same message
	for _, fc := range []*fakeConn{a, b} {
		select {
		case frame := <-fc.frames:
			var msg FeedsChangedMessage
			require.NoError(t, json.Unmarshal(frame, &msg))
			assert.Equal(t, FeedsChangedMessage{Action: "feedsChanged", Change: ChangeCreated, ID: "feed-1"}, msg)
		case <-time.After(time.Second):
			t.Fatal("viewer did not receive feedsChanged")
		}
	}
}

func TestHub_CloseUnregisters(t *testing.T) {
	rec := &gaugeRecorder{}
	hub := NewHub(rec)

	fc := newFakeConn()
	hub.Attach(fc)
	assert.Equal(t, 1, hub.Count())

	_ = fc.Close()

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []float64{1, 0}, rec.values)
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	hub.Attach(newFakeConn())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, hub.Count())
}

func TestHub_FeedsChangedNeverBlocks(t *testing.T) {
	// No Run loop: the queue fills and further messages are dropped.
	hub := NewHub(nil)
	assert.NotPanics(t, func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.FeedsChanged(ChangeDeleted, "x")
		}
	})
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestNoopMessenger(t *testing.T) {
	var m Messenger = NoopMessenger{}
	assert.NotPanics(t, func() { m.FeedsChanged(ChangeUpdated, "1") })
}
