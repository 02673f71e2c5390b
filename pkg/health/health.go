package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version information, typically set at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Handler handles health check endpoints.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler creates a new health check handler.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health is a liveness probe that always returns OK.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   Version,
	})
}

// Ready is a readiness probe that checks if the service can handle requests.
func (h *Handler) Ready(c *gin.Context) {
	checks := map[string]string{
		"database": h.checkDatabase(),
	}

	overallStatus := "ready"
	statusCode := http.StatusOK
	if checks["database"] != "ok" {
		overallStatus = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Version:   Version,
		Checks:    checks,
	})
}

// VersionInfo returns version information about the service.
func (h *Handler) VersionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   Version,
		"gitCommit": GitCommit,
		"buildTime": BuildTime,
	})
}

func (h *Handler) checkDatabase() string {
	if h.db == nil {
		return "not_configured"
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return "error: " + err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}

	return "ok"
}
