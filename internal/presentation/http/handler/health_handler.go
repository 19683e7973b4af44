package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates a new health handler. ping may be nil.
func NewHealthHandler(service string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	status, code := "ok", http.StatusOK
	database := "unknown"

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		database = "ok"
		if err := h.ping(ctx); err != nil {
			_ = c.Error(err)
			status, code, database = "degraded", http.StatusServiceUnavailable, "unreachable"
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  h.service,
		"database": database,
	})
}
