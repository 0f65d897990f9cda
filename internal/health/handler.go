// Package health provides the liveness endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/database/database"
)

const checkTimeout = 5 * time.Second

// ChatStats reports live chat connections.
type ChatStats interface {
	Connections() int
}

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	chat   ChatStats
	logger *zap.SugaredLogger
}

// New creates a new health handler instance. chat may be nil.
func New(db *gorm.DB, chat ChatStats, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		chat:   chat,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	ChatConnections int    `json:"chat_connections"`
}

// Check handles GET /health request.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Database: "up"}
	if h.chat != nil {
		resp.ChatConnections = h.chat.Connections()
	}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if stats, err := database.GetStats(h.db); err == nil {
		resp.OpenConnections = stats.OpenConnections
		resp.InUse = stats.InUse
	}

	c.JSON(http.StatusOK, resp)
}
