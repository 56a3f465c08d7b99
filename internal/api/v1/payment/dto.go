package payment

import (
	"activityhub-backend/internal/models"
	"time"
)

type CreatePaymentRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
	Method     string `json:"method" binding:"required"` // card, pix
}

type PaymentResponse struct {
	ID                   string               `json:"id"`
	ActivityID           string               `json:"activity_id"`
	PayerID              string               `json:"payer_id"`
	CreatorID            string               `json:"creator_id"`
	AmountMinorUnits     int64                `json:"amount_minor_units"`
	Method               models.PaymentMethod `json:"method"`
	Status               models.PaymentStatus `json:"status"`
	CommissionMinorUnits int64                `json:"commission_minor_units"`
	NetMinorUnits        int64                `json:"net_minor_units"`
	PixCode              string               `json:"pix_code,omitempty"`
	CheckoutURL          string               `json:"checkout_url,omitempty"`
	ExpiresAt            *time.Time           `json:"expires_at,omitempty"`
	CompletedAt          *time.Time           `json:"completed_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		ActivityID:           p.ActivityID,
		PayerID:              p.PayerID,
		CreatorID:            p.CreatorID,
		AmountMinorUnits:     p.AmountMinorUnits,
		Method:               p.Method,
		Status:               p.Status,
		CommissionMinorUnits: p.CommissionMinorUnits,
		NetMinorUnits:        p.NetMinorUnits,
		PixCode:              p.PixCode,
		CheckoutURL:          p.CheckoutURL,
		ExpiresAt:            p.ExpiresAt,
		CompletedAt:          p.CompletedAt,
		CreatedAt:            p.CreatedAt,
	}
}
