package gate

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches gate endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	student := middleware.RequireRoles(types.UserTypeStudent)

	router.GET("/courses/:courseId/sections/:sectionId/lectures/:index/access",
		append(student, handler.Check)...)
}
