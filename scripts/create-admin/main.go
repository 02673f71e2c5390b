package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/user"
	"github.com/coursehub/curriculum-server-go/pkg/config"
	"github.com/coursehub/curriculum-server-go/pkg/logger"
	"github.com/coursehub/curriculum-server-go/pkg/types"
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

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password (min 8 chars): ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if fullName == "" || email == "" || len(password) < 8 {
		fmt.Println("Error: Full name, email, and password (min 8 chars) are required")
		os.Exit(1)
	}

	admin, err := user.Create(db, user.CreateInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		UserType: types.UserTypeAdmin,
	})
	if err != nil {
		appLogger.Error("Failed to create admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Admin created: %s (%s)\n", admin.Email, admin.ID)
}
