package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub/curriculum-server-go/internal/middleware"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// RegisterRoutes attaches settings endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	group := router.Group("/settings")
	{
		group.GET("/completion-threshold",
			append(middleware.RequireRoles(types.UserTypeAdmin), handler.GetCompletionThreshold)...)
		group.PUT("/completion-threshold",
			append(middleware.RequireRoles(types.UserTypeAdmin), handler.UpdateCompletionThreshold)...)
	}
}
