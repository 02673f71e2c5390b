package outline

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/cache"
	"github.com/coursehub/curriculum-server-go/pkg/response"
)

const outlineCacheTTL = 30 * time.Second

// Handler processes outline HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cache  cache.Client
}

// NewHandler constructs an outline handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cacheClient cache.Client) *Handler {
	return &Handler{db: db, logger: logger, cache: cacheClient}
}

type lectureView struct {
	Lecture
	Completed bool `json:"completed"`
}

type sectionView struct {
	Section
	Lectures []lectureView `json:"lectures"`
}

// Reconcile replaces the persisted outline with the submitted tree.
func (h *Handler) Reconcile(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	var req struct {
		Sections []SectionInput `json:"sections"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid outline payload", err)
		return
	}

	if err := Reconcile(h.db.WithContext(c.Request.Context()), h.logger, courseID, req.Sections); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.cache.Delete(c.Request.Context(), outlineCacheKey(courseID)); err != nil {
		h.logger.Warn("failed to invalidate outline cache",
			slog.String("courseId", courseID.String()),
			slog.String("error", err.Error()),
		)
	}

	sections, err := TreeForCourse(h.db.WithContext(c.Request.Context()), courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load outline", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sections": sections}, "outline reconciled", nil)
}

// Get returns the ordered outline with per-lecture completion badges for
// the requesting user. The tree structure may be served from a short-lived
// cache; completion state is always read from the store.
func (h *Handler) Get(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	sections, err := h.loadTree(c, courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load outline", err)
		return
	}

	completed, err := progress.Completion(h.db.WithContext(c.Request.Context()), usr.ID, courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load progress", err)
		return
	}

	views := make([]sectionView, 0, len(sections))
	for _, sec := range sections {
		view := sectionView{Section: sec, Lectures: make([]lectureView, 0, len(sec.Lectures))}
		view.Section.Lectures = nil
		for _, lec := range sec.Lectures {
			view.Lectures = append(view.Lectures, lectureView{Lecture: lec, Completed: completed[lec.ID]})
		}
		views = append(views, view)
	}

	response.Success(c, http.StatusOK, gin.H{"sections": views}, "", nil)
}

func (h *Handler) loadTree(c *gin.Context, courseID uuid.UUID) ([]Section, error) {
	ctx := c.Request.Context()
	key := outlineCacheKey(courseID)

	if raw, err := h.cache.Get(ctx, key); err == nil && raw != "" {
		var sections []Section
		if err := json.Unmarshal([]byte(raw), &sections); err == nil {
			return sections, nil
		}
	}

	sections, err := TreeForCourse(h.db.WithContext(ctx), courseID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(sections); err == nil {
		if err := h.cache.Set(ctx, key, string(raw), outlineCacheTTL); err != nil {
			h.logger.Debug("outline cache write failed", slog.String("error", err.Error()))
		}
	}

	return sections, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if IsValidation(err) {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if swe, ok := err.(*StoreWriteError); ok {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, swe.Error(), swe)
		return
	}

	switch err {
	case ErrCourseNotFound:
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "unexpected error", err)
	}
}

func outlineCacheKey(courseID uuid.UUID) string {
	return "outline:" + courseID.String()
}
