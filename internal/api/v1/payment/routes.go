package payment

import (
	"activityhub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	// Public gateway callbacks, authenticated by signature
	r.Any("/payments/notify/epay", h.NotifyEpay)
	r.POST("/payments/notify/stripe", h.NotifyStripe)

	auth := r.Group("/payments")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("", h.CreatePayment)
		auth.GET("", h.ListPayments)
		auth.GET("/:id", h.GetPayment)
		auth.POST("/:id/complete", h.CompletePayment)
		auth.POST("/:id/cancel", h.CancelPayment)
	}
}
