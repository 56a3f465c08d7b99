package utils

import (
	"activityhub-backend/internal/services"
	"activityhub-backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch services.KindOf(err) {
	case services.ErrValidation:
		return http.StatusBadRequest
	case services.ErrNotFound:
		return http.StatusNotFound
	case services.ErrConflict:
		return http.StatusConflict
	case services.ErrExpired:
		return http.StatusGone
	case services.ErrConcurrency:
		return http.StatusServiceUnavailable
	case services.ErrNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err in the response envelope. Unclassified errors are logged
// and reported without detail.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)

	var se *services.ServiceError
	if errors.As(err, &se) {
		c.JSON(status, NewCodedErrorResponse(status, se.Code, se.Message))
		return
	}

	switch status {
	case http.StatusServiceUnavailable:
		c.JSON(status, NewCodedErrorResponse(status, "ConcurrencyError", "Resource is busy, please retry"))
	default:
		logger.Named("http").Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.Error(err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
	}
}
