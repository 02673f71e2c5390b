package user

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// User represents a system user.
type User struct {
	types.BaseModel

	FullName string         `gorm:"type:varchar(60);not null;column:full_name" json:"fullName"`
	Email    string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password string         `gorm:"type:varchar(255);not null" json:"-"`
	UserType types.UserType `gorm:"type:varchar(20);not null;default:'student';column:user_type;index" json:"userType"`
	Active   bool           `gorm:"type:boolean;not null;default:true;column:is_active;index" json:"isActive"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// CreateInput carries data for creating a new user.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	UserType types.UserType
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	if err := db.First(&usr, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// Create inserts a new user with hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	if len(input.Password) < 8 {
		return User{}, ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), 10)
	if err != nil {
		return User{}, err
	}

	usr := User{
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashedPassword),
		UserType: input.UserType,
		Active:   true,
	}

	if err := db.Create(&usr).Error; err != nil {
		if strings.Contains(err.Error(), "users_email_key") || strings.Contains(err.Error(), "duplicate key") {
			return usr, ErrEmailTaken
		}
		return usr, err
	}

	return usr, nil
}

// ComparePassword checks if the provided password matches the stored hash.
func (u *User) ComparePassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
