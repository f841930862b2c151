package websocket

import (
	"sync"

	"room-relay-service/internal/metrics"

	"go.uber.org/zap"
)

// Conn is a live real-time client handle
type Conn interface {
	ID() string
	IsOpen() bool
	Send(msg []byte) error
}

// Hub is the registry of connected clients. Every client receives every broadcast.
type Hub struct {
	mu      sync.RWMutex
	conns   map[Conn]struct{}
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:   make(map[Conn]struct{}),
		logger:  logger,
		metrics: m,
	}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	h.metrics.SetWSConnections(n)
	h.logger.Info("WebSocket client connected", zap.String("connId", c.ID()), zap.Int("connections", n))
}

// Remove drops c from the registry. Called only when the underlying connection closes.
func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.metrics.SetWSConnections(n)
	h.logger.Info("WebSocket client disconnected", zap.String("connId", c.ID()), zap.Int("connections", n))
}

// Broadcast sends msg to every open connection and returns the number of deliveries.
// Closed handles are skipped but stay registered; send failures are logged and ignored.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if !c.IsOpen() {
			continue
		}
		if err := c.Send(msg); err != nil {
			h.logger.Warn("Failed to deliver broadcast",
				zap.String("connId", c.ID()),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	h.metrics.RecordBroadcast(delivered)
	return delivered
}

// Len returns the number of registered connections, open or not
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
