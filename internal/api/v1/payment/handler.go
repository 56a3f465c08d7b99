package payment

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/payment"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"activityhub-backend/pkg/logger"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// EpayVerifier checks and decodes an epay callback.
type EpayVerifier interface {
	Notify(params map[string]string) (*payment.Notification, error)
}

// StripeVerifier checks and decodes a Stripe webhook delivery.
type StripeVerifier interface {
	ParseWebhook(payload []byte, signature string) (*payment.Notification, error)
}

// Handler serves the payment routes. Either verifier may be nil when that gateway
// is not configured; its callback route then answers 404.
type Handler struct {
	epay   EpayVerifier
	stripe StripeVerifier
}

func NewHandler(epay EpayVerifier, stripe StripeVerifier) *Handler {
	return &Handler{epay: epay, stripe: stripe}
}

// CreatePayment godoc
// @Summary Initiate a payment
// @Description Reserve an activity for the caller and start a card or pix payment.
// @Tags payments
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body CreatePaymentRequest true "Payment"
// @Success 201 {object} utils.Response{data=services.InitiateResult}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 501 {object} utils.Response
// @Router /payments [post]
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	method, err := services.ParsePaymentMethod(req.Method)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	result, err := services.InitiatePayment(c.Request.Context(), req.ActivityID, middleware.CurrentUserID(c), method)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Payment initiated", result))
}

// loadOwnPayment returns the payment when the caller is its payer or creator.
func loadOwnPayment(c *gin.Context) (*models.Payment, bool) {
	p, err := services.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	caller := middleware.CurrentUserID(c)
	if p.PayerID != caller && p.CreatorID != caller {
		// Indistinguishable from a missing payment.
		utils.RespondError(c, services.ErrPaymentNotFound)
		return nil, false
	}
	return p, true
}

// GetPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Security Bearer
// @Param id path string true "Payment ID"
// @Success 200 {object} utils.Response{data=PaymentResponse}
// @Failure 404 {object} utils.Response
// @Router /payments/{id} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	p, ok := loadOwnPayment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", NewPaymentResponse(p)))
}

// CompletePayment godoc
// @Summary Complete a payment
// @Description Settle a pending pix payment. Card payments settle through the gateway callback. Repeated calls return the stored outcome.
// @Tags payments
// @Produce json
// @Security Bearer
// @Param id path string true "Payment ID"
// @Success 200 {object} utils.Response{data=services.CompleteResult}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 410 {object} utils.Response
// @Router /payments/{id}/complete [post]
func (h *Handler) CompletePayment(c *gin.Context) {
	p, ok := loadOwnPayment(c)
	if !ok {
		return
	}
	if p.PayerID != middleware.CurrentUserID(c) {
		utils.RespondError(c, services.ErrNotOwner)
		return
	}
	if p.Method == models.PaymentMethodCard {
		utils.RespondError(c, services.ErrGatewayConfirmationRequired)
		return
	}

	result, err := services.CompletePayment(c.Request.Context(), p.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment completed", result))
}

// CancelPayment godoc
// @Summary Cancel a pending payment
// @Tags payments
// @Produce json
// @Security Bearer
// @Param id path string true "Payment ID"
// @Success 200 {object} utils.Response{data=PaymentResponse}
// @Failure 404 {object} utils.Response
// @Router /payments/{id}/cancel [post]
func (h *Handler) CancelPayment(c *gin.Context) {
	p, ok := loadOwnPayment(c)
	if !ok {
		return
	}
	if p.PayerID != middleware.CurrentUserID(c) {
		utils.RespondError(c, services.ErrNotOwner)
		return
	}

	p, err := services.CancelPayment(c.Request.Context(), p.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", NewPaymentResponse(p)))
}

// ListPayments godoc
// @Summary List the caller's payments
// @Description Payments where the caller is payer or creator, newest first.
// @Tags payments
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.Response{data=PaymentListResponse}
// @Router /payments [get]
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

	filter := services.PaymentFilter{UserID: middleware.CurrentUserID(c), Page: page, Limit: limit}
	if statusStr, exists := c.GetQuery("status"); exists {
		status := models.PaymentStatus(statusStr)
		filter.Status = &status
	}

	payments, total, err := services.ListPayments(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, NewPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", PaymentListResponse{
		Payments: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}))
}

// NotifyEpay handles the epay asynchronous callback. Epay expects the literal body
// "success" and retries anything else.
func (h *Handler) NotifyEpay(c *gin.Context) {
	if h.epay == nil {
		c.String(http.StatusNotFound, "gateway not configured")
		return
	}

	params := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	}

	n, err := h.epay.Notify(params)
	if err != nil {
		logger.Named("gateway").Warn("rejected epay notification", zap.Error(err))
		c.String(http.StatusBadRequest, "fail")
		return
	}
	if !n.Paid {
		c.String(http.StatusOK, "success")
		return
	}
	if _, err := services.HandleGatewayNotification(c.Request.Context(), n); err != nil {
		respondNotifyError(c, n, err)
		return
	}
	c.String(http.StatusOK, "success")
}

// NotifyStripe handles Stripe webhook deliveries.
func (h *Handler) NotifyStripe(c *gin.Context) {
	if h.stripe == nil {
		c.String(http.StatusNotFound, "gateway not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body")
		return
	}

	n, err := h.stripe.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logger.Named("gateway").Warn("rejected stripe webhook", zap.Error(err))
		c.String(http.StatusBadRequest, "fail")
		return
	}
	if n == nil || !n.Paid {
		// Event types we do not act on are acknowledged.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if _, err := services.HandleGatewayNotification(c.Request.Context(), n); err != nil {
		respondNotifyError(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// respondNotifyError acknowledges callbacks that can never succeed so the gateway
// stops retrying, and fails the rest.
func respondNotifyError(c *gin.Context, n *payment.Notification, err error) {
	log := logger.Named("gateway").With(zap.String("payment_id", n.PaymentID), zap.Error(err))
	switch {
	case errors.Is(err, services.ErrExpired), errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrNotFound):
		log.Error("paid notification for a payment that cannot complete")
		c.String(http.StatusOK, "success")
	default:
		log.Warn("notification processing failed")
		c.String(utils.StatusFor(err), "fail")
	}
}
