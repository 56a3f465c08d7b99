package middleware

import (
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// authenticate validates the bearer token and stores the caller identity on c.
// It writes the failure response itself and reports whether the chain may continue.
func authenticate(c *gin.Context, invalidStatus int) (jwt.MapClaims, bool) {
	tokenString, err := utils.ExtractToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, err.Error()))
		c.Abort()
		return nil, false
	}

	isDenylisted, err := services.IsDenylisted(c.Request.Context(), tokenString)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to check token status"))
		c.Abort()
		return nil, false
	}
	if isDenylisted {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Token has been revoked"))
		c.Abort()
		return nil, false
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		c.JSON(invalidStatus, utils.NewErrorResponse(invalidStatus, "Invalid or expired token"))
		c.Abort()
		return nil, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid user ID in token"))
		c.Abort()
		return nil, false
	}
	role, _ := claims["role"].(string)

	c.Set(ContextUserID, userID)
	c.Set(ContextRole, role)
	c.Set(ContextToken, tokenString)
	return claims, true
}

// AuthMiddleware accepts any valid bearer token. The caller id comes from the
// token only, never from the request body.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, http.StatusUnauthorized); !ok {
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller id.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
