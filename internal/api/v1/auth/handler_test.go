package auth_test

import (
	"activityhub-backend/internal/api/test"
	"activityhub-backend/internal/api/v1/auth"
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/middleware"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogout(t *testing.T) {
	r := test.Setup(t)
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api)
	api.GET("/ping", middleware.AuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	token := test.Token(t, "u1", "user")

	w := test.Do(t, r, http.MethodGet, "/api/v1/ping", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = test.Do(t, r, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ttl := database.RedisClient.TTL(t.Context(), "denylist:"+token).Val()
	assert.Greater(t, ttl.Hours(), 71.0)

	w = test.Do(t, r, http.MethodGet, "/api/v1/ping", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = test.Do(t, r, http.MethodPost, "/api/v1/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
