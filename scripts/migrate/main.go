package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/course"
	"github.com/coursehub/curriculum-server-go/internal/features/homework"
	"github.com/coursehub/curriculum-server-go/internal/features/outline"
	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/internal/features/settings"
	"github.com/coursehub/curriculum-server-go/internal/features/user"
	"github.com/coursehub/curriculum-server-go/pkg/config"
	"github.com/coursehub/curriculum-server-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Failed to get SQL DB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		appLogger.Error("Failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database connection established")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		appLogger.Error("Failed to create uuid extension", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Starting database migrations...")

	if err := db.AutoMigrate(
		&user.User{},
		&course.Course{},
		&outline.Section{},
		&outline.Lecture{},
		&progress.Record{},
		&homework.Submission{},
		&settings.Settings{},
	); err != nil {
		appLogger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database migrations completed successfully")
	fmt.Println("All database tables created/updated successfully")
}
