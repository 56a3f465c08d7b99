package middleware

import (
	"activityhub-backend/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger returns a gin.HandlerFunc (middleware) that logs requests using zap
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("RequestID", requestID)

		c.Next()

		latency := time.Since(start)
		log := logger.L()

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				log.Error(e, zap.String("request_id", requestID), zap.String("path", path))
			}
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
		}
		if userID := CurrentUserID(c); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		if c.Writer.Status() >= 500 {
			log.Error("Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("Client Error", fields...)
		} else {
			log.Info("Request", fields...)
		}
	}
}
