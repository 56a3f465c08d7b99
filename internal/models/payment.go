package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodPix  PaymentMethod = "pix"
	// Offered in the client but not backed by any gateway.
	PaymentMethodPaypal   PaymentMethod = "paypal"
	PaymentMethodApplePay PaymentMethod = "applepay"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// IsTerminal reports whether no transition may leave the status.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled || s == PaymentStatusExpired
}

// Payment is the settlement record for one payer booking one activity.
//
// ActiveKey holds "activityID:payerID" while the payment is pending or completed
// and NULL otherwise; its unique index is what makes the duplicate check and the
// insert a single atomic step.
type Payment struct {
	ID                   string         `gorm:"primarykey;type:varchar(32)" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	ActivityID           string         `gorm:"type:varchar(36);index;not null" json:"activity_id"`
	PayerID              string         `gorm:"type:varchar(36);index;not null" json:"payer_id"`
	CreatorID            string         `gorm:"type:varchar(36);index;not null" json:"creator_id"`
	AmountMinorUnits     int64          `gorm:"not null" json:"amount_minor_units"`
	Method               PaymentMethod  `gorm:"type:varchar(20);not null" json:"method"`
	Status               PaymentStatus  `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	CommissionMinorUnits int64          `gorm:"default:0" json:"commission_minor_units"`
	NetMinorUnits        int64          `gorm:"default:0" json:"net_minor_units"`
	PixCode              string         `gorm:"type:varchar(32)" json:"pix_code,omitempty"`
	CheckoutHandle       string         `gorm:"type:varchar(128);index" json:"checkout_handle,omitempty"`
	CheckoutURL          string         `gorm:"type:text" json:"checkout_url,omitempty"`
	ExternalID           string         `gorm:"type:varchar(64);index" json:"external_id,omitempty"`
	GatewayPayload       datatypes.JSON `json:"-"`
	ExpiresAt            *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	ActiveKey            *string        `gorm:"type:varchar(80);uniqueIndex" json:"-"`
	Version              int            `gorm:"not null;default:1" json:"version"`
}

// PaymentActiveKey is the uniqueness key shared by every live payment of a payer for an activity.
func PaymentActiveKey(activityID, payerID string) string {
	return activityID + ":" + payerID
}
