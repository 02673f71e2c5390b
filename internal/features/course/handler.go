package course

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/pagination"
	"github.com/coursehub/curriculum-server-go/pkg/response"
	"github.com/coursehub/curriculum-server-go/pkg/types"
	"github.com/coursehub/curriculum-server-go/pkg/validation"
)

// Handler processes course HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated courses.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	filters := ListFilters{
		Keyword:       c.Query("filterKeyword"),
		PublishedOnly: c.Query("publishedOnly") == "true",
	}

	if raw := c.Query("instructorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid instructor id", err)
			return
		}
		filters.InstructorID = &id
	}

	courses, total, err := List(h.db.WithContext(c.Request.Context()), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// GetByID returns a single course.
func (h *Handler) GetByID(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	crs, err := Get(h.db.WithContext(c.Request.Context()), courseID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, crs, "", nil)
}

// Create adds a new course owned by the authenticated instructor.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}

	var req struct {
		Title       string       `json:"title" binding:"required"`
		Slug        string       `json:"slug" binding:"required"`
		Description *string      `json:"description"`
		Price       *types.Money `json:"price"`
		Published   *bool        `json:"isPublished"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	crs, err := Create(h.db.WithContext(c.Request.Context()), CreateInput{
		InstructorID: usr.ID,
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		Published:    req.Published,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, crs, "course created")
}

// Update modifies course fields.
func (h *Handler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	var req struct {
		Title       *string      `json:"title"`
		Slug        *string      `json:"slug"`
		Description *string      `json:"description"`
		Price       *types.Money `json:"price"`
		Published   *bool        `json:"isPublished"`
	}

	raw := map[string]interface{}{}
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	_, descProvided := raw["description"]

	crs, err := Update(h.db.WithContext(c.Request.Context()), courseID, UpdateInput{
		Title:        req.Title,
		Slug:         req.Slug,
		DescProvided: descProvided,
		Description:  req.Description,
		Price:        req.Price,
		Published:    req.Published,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, crs, "course updated", nil)
}

// Delete removes a course.
func (h *Handler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if err := Delete(h.db.WithContext(c.Request.Context()), courseID); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "course deleted", nil)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch err {
	case ErrCourseNotFound:
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case ErrSlugTaken:
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case ErrInvalidPrice, validation.ErrInvalidSlug:
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "unexpected error", err)
	}
}
