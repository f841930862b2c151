package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-relay-service/internal/websocket"
)

type WSHandler struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *websocket.Hub, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and serves the client until it disconnects.
// No authentication; every client receives every broadcast.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := websocket.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	websocket.NewClient(conn, h.hub, h.logger).Serve()
}
