// Package stripe is the card gateway backed by Stripe Checkout.
package stripe

import (
	"activityhub-backend/internal/payment"
	"context"
	"encoding/json"
	"fmt"

	stripego "github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
)

const eventCheckoutCompleted = "checkout.session.completed"

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// sessionCreator is the checkout/session.New signature, swapped in tests.
type sessionCreator func(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)

type Driver struct {
	cfg        Config
	newSession sessionCreator
}

func NewDriver(cfg Config) (*Driver, error) {
	if cfg.SecretKey == "" {
		return nil, payment.ErrMissingConfig
	}
	if cfg.Currency == "" {
		cfg.Currency = "brl"
	}
	stripego.Key = cfg.SecretKey
	return &Driver{cfg: cfg, newSession: checkoutsession.New}, nil
}

func (d *Driver) Name() string {
	return "stripe"
}

func (d *Driver) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	successURL := d.cfg.SuccessURL
	if req.ReturnURL != "" {
		successURL = req.ReturnURL
	}
	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		ClientReferenceID:  stripego.String(req.PaymentID),
		SuccessURL:         stripego.String(successURL + "?payment_id=" + req.PaymentID),
		CancelURL:          stripego.String(d.cfg.CancelURL + "?payment_id=" + req.PaymentID),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(d.cfg.Currency),
					UnitAmount: stripego.Int64(req.AmountMinorUnits),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripego.String(req.Title),
						Description: optionalString(req.Description),
					},
				},
				Quantity: stripego.Int64(1),
			},
		},
		Metadata: map[string]string{
			"payment_id": req.PaymentID,
			"payer_id":   req.PayerID,
		},
	}
	params.Context = ctx

	sess, err := d.newSession(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &payment.CheckoutSession{Handle: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts completed checkouts.
// Other event types return a nil notification.
func (d *Driver) ParseWebhook(payload []byte, signature string) (*payment.Notification, error) {
	event, err := webhook.ConstructEvent(payload, signature, d.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}
	if event.Type != eventCheckoutCompleted {
		return nil, nil
	}

	var sess stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, err
	}
	paymentID := sess.Metadata["payment_id"]
	if paymentID == "" {
		paymentID = sess.ClientReferenceID
	}
	return &payment.Notification{
		PaymentID:        paymentID,
		ExternalID:       sess.ID,
		AmountMinorUnits: sess.AmountTotal,
		Paid:             sess.PaymentStatus == stripego.CheckoutSessionPaymentStatusPaid,
		Raw: map[string]string{
			"event_id":   event.ID,
			"session_id": sess.ID,
		},
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return stripego.String(s)
}
