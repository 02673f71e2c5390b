package settings

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/response"
)

// Handler processes settings HTTP requests.
type Handler struct {
	db               *gorm.DB
	logger           *slog.Logger
	defaultThreshold int
}

// NewHandler constructs a settings handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, defaultThreshold int) *Handler {
	return &Handler{db: db, logger: logger, defaultThreshold: defaultThreshold}
}

// GetCompletionThreshold returns the current completion threshold.
func (h *Handler) GetCompletionThreshold(c *gin.Context) {
	s, err := Load(h.db.WithContext(c.Request.Context()), h.defaultThreshold)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load settings", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"completionThreshold": s.CompletionThreshold}, "", nil)
}

// UpdateCompletionThreshold sets a new completion threshold.
func (h *Handler) UpdateCompletionThreshold(c *gin.Context) {
	var req struct {
		CompletionThreshold *int `json:"completionThreshold" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid settings payload", err)
		return
	}

	s, err := UpdateThreshold(h.db.WithContext(c.Request.Context()), *req.CompletionThreshold)
	if err != nil {
		if err == ErrInvalidThreshold {
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to update settings", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"completionThreshold": s.CompletionThreshold}, "settings updated", nil)
}
