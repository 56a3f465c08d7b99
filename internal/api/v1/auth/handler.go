package auth

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// maxTokenLife bounds the denylist entry when the token carries no expiry.
const maxTokenLife = 72 * time.Hour

// Logout godoc
// @Summary Revoke the bearer token
// @Description Adds the caller's token to the denylist until it expires.
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.ContextToken)

	remaining := maxTokenLife
	if claims, err := utils.ValidateToken(tokenString); err == nil {
		if d := utils.TokenExpiry(claims); d > 0 {
			remaining = d
		}
	}

	if err := services.AddToDenylist(c.Request.Context(), tokenString, remaining); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to denylist token"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged out successfully", nil))
}
