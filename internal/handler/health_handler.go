package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kaira_store/internal/utils"
)

var startTime = time.Now()

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth responds with service and database status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.Error(c, 503, "DATABASE_UNAVAILABLE", "Database is not reachable")
		return
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":   "healthy",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": "connected",
	})
}
