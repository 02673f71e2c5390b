package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/course"
	"github.com/coursehub/curriculum-server-go/internal/features/gate"
	"github.com/coursehub/curriculum-server-go/internal/features/homework"
	"github.com/coursehub/curriculum-server-go/internal/features/outline"
	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/internal/features/settings"
	"github.com/coursehub/curriculum-server-go/internal/features/user"
	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/cache"
	"github.com/coursehub/curriculum-server-go/pkg/config"
	"github.com/coursehub/curriculum-server-go/pkg/health"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, cacheClient cache.Client, tracker *progress.Tracker) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.VersionInfo)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	// Initialize global middleware instance
	middleware.Initialize(db, cfg.JWTSecret, logger)

	userHandler := user.NewHandler(db, logger, cfg.JWTSecret)
	user.RegisterRoutes(api, userHandler)

	courseHandler := course.NewHandler(db, logger)
	course.RegisterRoutes(api, courseHandler)

	outlineHandler := outline.NewHandler(db, logger, cacheClient)
	outline.RegisterRoutes(api, outlineHandler)

	progressHandler := progress.NewHandler(db, logger, tracker)
	progress.RegisterRoutes(api, progressHandler)

	gateHandler := gate.NewHandler(db, logger)
	gate.RegisterRoutes(api, gateHandler)

	homeworkHandler := homework.NewHandler(db, logger)
	homework.RegisterRoutes(api, homeworkHandler)

	settingsHandler := settings.NewHandler(db, logger, cfg.DefaultCompletionThreshold)
	settings.RegisterRoutes(api, settingsHandler)
}
