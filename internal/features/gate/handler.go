package gate

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/response"
)

// Handler processes access-gate HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a gate handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Check answers whether the learner may open the lecture at a position in
// a section. A resolution failure still answers, with access denied.
func (h *Handler) Check(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	sectionID, err := uuid.Parse(c.Param("sectionId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid section id", err)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture index", err)
		return
	}

	decision, err := Check(h.db.WithContext(c.Request.Context()), usr.ID, courseID, sectionID, index)
	if err != nil {
		h.logger.Error("gate resolution failed, denying access",
			slog.String("courseId", courseID.String()),
			slog.String("sectionId", sectionID.String()),
			slog.Int("index", index),
			slog.String("error", err.Error()),
		)
	}

	status := http.StatusOK
	if decision.Status == StatusNotFound {
		status = http.StatusNotFound
	}

	response.Success(c, status, gin.H{
		"allowed":       decision.Allowed(),
		"status":        decision.Status,
		"predecessorId": decision.PredecessorID,
	}, "", nil)
}
