package bootstrap

import (
	"os"

	"log/slog"

	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/user"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

const defaultAdminEmail = "admin@coursehub.local"

// EnsureDefaultAdmin creates the default admin account if no admin exists.
// The password comes from ADMIN_PASSWORD; without it, a fresh database gets
// no admin and a warning instead of a weak default credential.
func EnsureDefaultAdmin(db *gorm.DB, logger *slog.Logger) error {
	var count int64
	if err := db.Model(&user.User{}).Where("user_type = ?", types.UserTypeAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Warn("no admin account exists and ADMIN_PASSWORD is unset, skipping admin bootstrap")
		return nil
	}

	admin, err := user.Create(db, user.CreateInput{
		FullName: "Administrator",
		Email:    defaultAdminEmail,
		Password: password,
		UserType: types.UserTypeAdmin,
	})
	if err != nil {
		return err
	}

	logger.Info("default admin created", slog.String("email", admin.Email))
	return nil
}
