// Package websocket pushes feed change notifications to open feed viewers.
// file: websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"go-youth-feed/logger"
	"go-youth-feed/metrics"
)

// Hub tracks viewer connections and fans broadcast messages out to them.
type Hub struct {
	mu          sync.Mutex
	connections map[*Connection]bool
	broadcast   chan []byte
	metrics     metrics.Publisher
}

// NewHub creates a hub. Call Run to start delivering messages.
func NewHub(pub metrics.Publisher) *Hub {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan []byte, 64),
		metrics:     pub,
	}
}

// Run listens for messages on the broadcast channel and distributes them to
// connections until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.connections {
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("[Hub] Dropping broadcast message for connection %v", c.conn.RemoteAddr())
		}
	}
}

// Count returns the number of open viewer connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	n := len(h.connections)
	h.mu.Unlock()

	logger.Debug.Printf("[Hub] Registered viewer %v (total=%d)", c.conn.RemoteAddr(), n)
	h.metrics.Gauge(metrics.ViewerConnections, float64(n))
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
	n := len(h.connections)
	h.mu.Unlock()

	h.metrics.Gauge(metrics.ViewerConnections, float64(n))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}
