package websocket

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Greeting is sent to every client right after the upgrade
const Greeting = "Connected to WebSocket Server!"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 100 << 20 // 100 MiB; inbound frames are only logged
)

var errConnClosed = errors.New("websocket connection closed")

// Upgrader accepts any origin; clients are not authenticated
var Upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client wraps a gorilla connection as a hub Conn
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	logger *zap.Logger

	open    *atomic.Bool
	writeMu sync.Mutex
	done    chan struct{}
}

func NewClient(conn *websocket.Conn, hub *Hub, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		hub:    hub,
		logger: logger,
		open:   atomic.NewBool(true),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) IsOpen() bool { return c.open.Load() }

// Send writes msg as a single text frame
func (c *Client) Send(msg []byte) error {
	if !c.open.Load() {
		return errConnClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Serve sends the greeting, registers the client and blocks until the connection closes.
// The greeting always precedes the first broadcast.
func (c *Client) Serve() {
	if err := c.Send([]byte(Greeting)); err != nil {
		c.logger.Warn("Failed to send greeting", zap.String("connId", c.id), zap.Error(err))
	}
	c.hub.Add(c)

	go c.pingLoop()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Warn("WebSocket read error", zap.String("connId", c.id), zap.Error(err))
			}
			return
		}

		c.logger.Info("Received WebSocket message",
			zap.String("connId", c.id),
			zap.Int("size", len(message)),
			zap.ByteString("message", truncate(message, maxLoggedMessage)),
		)
	}
}

// maxLoggedMessage bounds how much of an inbound frame reaches the log
const maxLoggedMessage = 1024

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("WebSocket ping failed", zap.String("connId", c.id), zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) close() {
	if !c.open.CompareAndSwap(true, false) {
		return
	}
	close(c.done)
	c.hub.Remove(c)
	_ = c.conn.Close()
}
