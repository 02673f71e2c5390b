package course

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches course endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	courses := router.Group("/courses")

	staff := middleware.RequireRoles(types.UserTypeInstructor, types.UserTypeAdmin)
	authed := middleware.RequireRoles(types.UserTypeAll)

	courses.GET("", append(authed, handler.List)...)
	courses.GET("/:courseId", append(authed, handler.GetByID)...)
	courses.POST("", append(staff, handler.Create)...)
	courses.PUT("/:courseId", append(staff, handler.Update)...)
	courses.DELETE("/:courseId", append(staff, handler.Delete)...)
}
