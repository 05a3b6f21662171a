package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/foodgram-api/database"
	"github.com/foodgram-api/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports liveness and database reachability
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a new health controller
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// HealthCheck handles the health check endpoint
func (hc *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code, status, dbStatus := http.StatusOK, "ok", "ok"
	if err := database.Ping(ctx, hc.db); err != nil {
		logger.WithError(err).Warn("health check: database unreachable")
		code, status, dbStatus = http.StatusServiceUnavailable, "degraded", "unavailable"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   "foodgram-api",
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
