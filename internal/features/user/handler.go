package user

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	jwtutil "github.com/coursehub/curriculum-server-go/internal/utils/jwt"
	"github.com/coursehub/curriculum-server-go/pkg/response"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Handler processes user HTTP requests.
type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	jwtSecret string
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, jwtSecret string) *Handler {
	return &Handler{db: db, logger: logger, jwtSecret: jwtSecret}
}

// Register creates a new student account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid registration payload", err)
		return
	}

	usr, err := Create(h.db, CreateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		UserType: types.UserTypeStudent,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := jwtutil.GenerateAccessToken(usr.ID, h.jwtSecret, 24*time.Hour)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	response.Created(c, gin.H{"user": usr, "accessToken": token}, "account created")
}

// Login authenticates a user and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	usr, err := GetByEmail(h.db, req.Email)
	if err != nil || !usr.ComparePassword(req.Password) {
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials.Error(), nil)
		return
	}

	if !usr.Active {
		response.Error(c, http.StatusForbidden, "account is deactivated", nil)
		return
	}

	token, err := jwtutil.GenerateAccessToken(usr.ID, h.jwtSecret, 24*time.Hour)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": usr, "accessToken": token}, "login successful", nil)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrUserNotFound:
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case ErrEmailTaken:
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case ErrInvalidPassword:
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "unexpected error", err)
	}
}
