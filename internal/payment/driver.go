package payment

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingConfig    = errors.New("payment gateway is not configured")
)

// CheckoutRequest describes the card charge for one pending payment.
type CheckoutRequest struct {
	PaymentID        string
	PayerID          string
	Title            string
	Description      string
	AmountMinorUnits int64
	ReturnURL        string
}

// CheckoutSession is what the payer is sent to. Handle is the gateway's session id.
type CheckoutSession struct {
	Handle string
	URL    string
}

// Notification is a verified gateway callback.
type Notification struct {
	PaymentID        string
	ExternalID       string
	AmountMinorUnits int64 // 0 when the gateway did not report it
	Paid             bool
	Raw              map[string]string
}

// Gateway is the card network collaborator. Implementations must be safe for
// concurrent use.
type Gateway interface {
	// Name identifies the driver, e.g. "epay" or "stripe"
	Name() string

	// CreateCheckout opens a checkout session for the payment
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}
