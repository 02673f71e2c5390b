package homework

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches homework endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	student := middleware.RequireRoles(types.UserTypeStudent)
	staff := middleware.RequireRoles(types.UserTypeInstructor, types.UserTypeAdmin)

	router.POST("/lectures/:lectureId/homework", append(student, handler.Submit)...)
	router.GET("/lectures/:lectureId/homework", append(staff, handler.ListForLecture)...)
	router.PUT("/homework/:id/review", append(staff, handler.Review)...)
}
