package progress

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches progress endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	student := middleware.RequireRoles(types.UserTypeStudent)

	router.POST("/courses/:courseId/lectures/:lectureId/progress", append(student, handler.RecordSample)...)
	router.GET("/courses/:courseId/progress", append(student, handler.Get)...)
}
