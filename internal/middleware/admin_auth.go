package middleware

import (
	"activityhub-backend/internal/utils"
	"activityhub-backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthMiddleware validates that the user has admin privileges.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, http.StatusForbidden)
		if !ok {
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			logger.Named("auth").Warn("unauthorized admin access attempt",
				zap.String("user_id", CurrentUserID(c)),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: Admins only"))
			c.Abort()
			return
		}

		c.Next()
	}
}
