package payment

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	paymentGroup := r.Group("/payments")
	{
		paymentGroup.GET("", h.ListPayments)
		paymentGroup.POST("/sweep", h.Sweep)
		paymentGroup.POST("/:id/expire", h.ExpirePayment)
	}
}
