package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clientscore/backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	store *store.Store
	redis *redis.Client
}

func NewHealthHandler(s *store.Store, client *redis.Client) *HealthHandler {
	return &HealthHandler{store: s, redis: client}
}

// Health reports 503 when a required dependency is unreachable. Redis is
// reported as "disabled" when no client is configured.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "disabled"}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks, "timestamp": time.Now().UTC()})
}
