package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/bootstrap"
	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/internal/features/settings"
	"github.com/coursehub/curriculum-server-go/internal/http/routes"
	internaljobs "github.com/coursehub/curriculum-server-go/internal/jobs"
	"github.com/coursehub/curriculum-server-go/pkg/cache"
	"github.com/coursehub/curriculum-server-go/pkg/config"
	"github.com/coursehub/curriculum-server-go/pkg/database"
	"github.com/coursehub/curriculum-server-go/pkg/jobs"
	"github.com/coursehub/curriculum-server-go/pkg/logger"
	"github.com/coursehub/curriculum-server-go/pkg/metrics"
	"github.com/coursehub/curriculum-server-go/pkg/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/notify"
	"github.com/coursehub/curriculum-server-go/pkg/request"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.EnsureDefaultAdmin(db, appLogger); err != nil {
		appLogger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}

	// Redis backs the outline cache and the completion event bus. Without
	// an address everything degrades to in-process equivalents.
	var cacheClient cache.Client
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cacheClient = redisClient
		appLogger.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
	} else {
		cacheClient = cache.NewMemoryClient()
		appLogger.Warn("REDIS_ADDR unset, using in-memory cache")
	}
	defer cacheClient.Close()

	// Socket.IO pushes completion events to learner rooms.
	notifyServer, err := notify.NewServer(db, appLogger, cfg.JWTSecret)
	if err != nil {
		appLogger.Error("socket.io server initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer notifyServer.Close()

	thresholdProvider := func() int {
		return settings.CompletionThreshold(db, cfg.DefaultCompletionThreshold)
	}
	throttle := progress.NewThrottle(cfg.ProgressUpdateThreshold)
	tracker := progress.NewTracker(db, appLogger, thresholdProvider, throttle, notifyServer, cacheClient)

	scheduler := jobs.NewScheduler(appLogger)
	scheduler.AddJob(internaljobs.NewLectureCountRepairJob(db, appLogger), 1*time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	router := gin.New()

	// Socket.IO mounts before the full middleware stack; it only needs
	// recovery and CORS.
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/socket.io/*any", gin.WrapH(notifyServer.GetHandler()))
	router.POST("/socket.io/*any", gin.WrapH(notifyServer.GetHandler()))

	router.Use(middleware.RequestID())
	router.Use(middleware.Compression(middleware.BestSpeed))
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))
	router.Use(metrics.Middleware())
	router.Use(request.Handler(appLogger))

	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	router.Use(rateLimiter.Middleware())

	routes.Register(router, cfg, db, appLogger, cacheClient, tracker)

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
