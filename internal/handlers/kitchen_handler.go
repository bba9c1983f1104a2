package handlers

import (
	"log/slog"
	"net/http"

	"restaurant_service/internal/events"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// KitchenHandler streams kitchen events to screens over WebSocket.
type KitchenHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewKitchenHandler(hub *events.Hub, allowedOrigins []string, log *logger.Logger) *KitchenHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &KitchenHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *KitchenHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws_upgrade", middleware.GetRequestID(c), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	h.log.Info("ws_connect", middleware.GetRequestID(c), "kitchen screen connected",
		slog.Uint64("user_id", uint64(actor(c).UserID)))
	h.hub.Serve(conn)
}
