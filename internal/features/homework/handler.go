package homework

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/response"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Handler processes homework HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a homework handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Submit creates a pending submission for the authenticated student.
func (h *Handler) Submit(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return
	}

	var req struct {
		Files   []string       `json:"files"`
		Answers datatypes.JSON `json:"answers"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid submission payload", err)
		return
	}

	sub, err := Create(h.db.WithContext(c.Request.Context()), CreateInput{
		UserID:    usr.ID,
		LectureID: lectureID,
		Files:     req.Files,
		Answers:   req.Answers,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, sub, "homework submitted")
}

// Review records a staff review decision on a submission.
func (h *Handler) Review(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid submission id", err)
		return
	}

	var req struct {
		Status   types.HomeworkStatus `json:"status" binding:"required"`
		Feedback *string              `json:"feedback"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid review payload", err)
		return
	}

	sub, err := Review(h.db.WithContext(c.Request.Context()), submissionID, usr.ID, req.Status, req.Feedback)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sub, "homework reviewed", nil)
}

// ListForLecture returns a lecture's submissions for staff review.
func (h *Handler) ListForLecture(c *gin.Context) {
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return
	}

	subs, err := ListForLecture(h.db.WithContext(c.Request.Context()), lectureID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list submissions", err)
		return
	}

	response.Success(c, http.StatusOK, subs, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrSubmissionNotFound:
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case ErrInvalidStatus:
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case ErrAlreadySubmitted:
		response.Error(c, http.StatusConflict, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "unexpected error", err)
	}
}
