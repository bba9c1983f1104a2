package handlers

import (
	"context"
	"net/http"
	"time"

	"restaurant_service/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    *gorm.DB
	redis Pinger
}

// NewHealthHandler takes a nil redis when the denylist is not configured.
func NewHealthHandler(db *gorm.DB, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) Root(c *gin.Context) {
	message(c, "Restaurant Service API is running")
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "healthy", "database": "connected", "redis": "disabled"}
	code := http.StatusOK
	if err := database.Ping(ctx, h.db); err != nil {
		body["status"] = "unhealthy"
		body["database"] = "disconnected"
		code = http.StatusServiceUnavailable
	}
	if h.redis != nil {
		body["redis"] = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			body["redis"] = "disconnected"
		}
	}
	c.JSON(code, body)
}
