package user

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches account endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
	}
}
