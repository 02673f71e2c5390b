package outline

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches outline endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	group := router.Group("/courses/:courseId/outline")

	staff := middleware.RequireRoles(types.UserTypeInstructor, types.UserTypeAdmin)
	authed := middleware.RequireRoles(types.UserTypeAll)

	group.PUT("", append(staff, handler.Reconcile)...)
	group.GET("", append(authed, handler.Get)...)
}
