package auth

import (
	"activityhub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/logout", middleware.AuthMiddleware(), Logout)
}
