package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a user's plan. ActiveKey is the user id while active and NULL
// once cancelled, so a second active row for the same user cannot be inserted.
type Subscription struct {
	ID              string             `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	UserID          string             `gorm:"type:varchar(36);index;not null" json:"user_id"`
	PlanID          string             `gorm:"type:varchar(20);not null" json:"plan_id"`
	Status          SubscriptionStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	StartDate       time.Time          `json:"start_date"`
	NextBillingDate time.Time          `json:"next_billing_date"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	ActiveKey       *string            `gorm:"type:varchar(36);uniqueIndex" json:"-"`
	Version         int                `gorm:"not null;default:1" json:"version"`
}

// Plan is an entry of the subscription catalog.
type Plan struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	PriceMinorUnits  int64            `json:"price_minor_units"`
	Tier             SubscriptionTier `json:"tier"`
	BillingPeriodDay int              `json:"billing_period_days"`
}
