package progress

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/response"
)

// Handler processes progress HTTP requests.
type Handler struct {
	db      *gorm.DB
	logger  *slog.Logger
	tracker *Tracker
}

// NewHandler constructs a progress handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, tracker *Tracker) *Handler {
	return &Handler{db: db, logger: logger, tracker: tracker}
}

// RecordSample ingests one watch sample from the player. Throttled and
// write-failed samples still answer success so playback is never
// interrupted.
func (h *Handler) RecordSample(c *gin.Context) {
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

	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return
	}

	var req struct {
		CurrentTime   *float64 `json:"currentTime" binding:"required"`
		TotalDuration *float64 `json:"totalDuration" binding:"required"`
		PlayerID      string   `json:"playerId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid sample payload", err)
		return
	}

	result, err := h.tracker.RecordSample(c.Request.Context(), Sample{
		UserID:        usr.ID,
		CourseID:      courseID,
		LectureID:     lectureID,
		CurrentTime:   *req.CurrentTime,
		TotalDuration: *req.TotalDuration,
		PlayerID:      req.PlayerID,
	})
	if err != nil {
		if err == ErrInvalidSample {
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "unexpected error", err)
		return
	}

	response.Success(c, http.StatusOK, result, "", nil)
}

// Get returns the user's completion map for a course.
func (h *Handler) Get(c *gin.Context) {
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

	records, err := ForCourse(h.db.WithContext(c.Request.Context()), usr.ID, courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load progress", err)
		return
	}

	completed := make(map[string]bool, len(records))
	for _, rec := range records {
		completed[rec.LectureID.String()] = rec.Completed
	}

	response.Success(c, http.StatusOK, gin.H{"records": records, "completed": completed}, "", nil)
}
