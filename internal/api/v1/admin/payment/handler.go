package payment

import (
	paymentapi "activityhub-backend/internal/api/v1/payment"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Sweeper expires overdue pix payments in one pass.
type Sweeper interface {
	SweepOnce(ctx context.Context) int
}

type Handler struct {
	sweeper Sweeper
}

func NewHandler(sweeper Sweeper) *Handler {
	return &Handler{sweeper: sweeper}
}

// ListPayments godoc
// @Summary List all payments
// @Tags admin
// @Produce json
// @Security Bearer
// @Param user_id query string false "Payer or creator"
// @Param status query string false "Payment status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=payment.PaymentListResponse}
// @Router /admin/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	filter := services.PaymentFilter{UserID: c.Query("user_id"), Page: page, Limit: limit}
	if s, exists := c.GetQuery("status"); exists {
		status := models.PaymentStatus(s)
		filter.Status = &status
	}

	payments, total, err := services.ListPayments(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]paymentapi.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentapi.NewPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", paymentapi.PaymentListResponse{
		Payments: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}))
}

// ExpirePayment godoc
// @Summary Expire an overdue pix payment
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Payment ID"
// @Success 200 {object} utils.Response{data=payment.PaymentResponse}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/payments/{id}/expire [post]
func (h *Handler) ExpirePayment(c *gin.Context) {
	p, err := services.ExpirePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", paymentapi.NewPaymentResponse(p)))
}

// Sweep godoc
// @Summary Run the pix expiry sweep now
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=SweepResponse}
// @Router /admin/payments/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	n := h.sweeper.SweepOnce(c.Request.Context())
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", SweepResponse{Expired: n}))
}
