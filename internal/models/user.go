package models

import "time"

type SubscriptionTier string

const (
	TierNone    SubscriptionTier = "none"
	TierBasic   SubscriptionTier = "basic"
	TierPro     SubscriptionTier = "pro"
	TierPremium SubscriptionTier = "premium"
)

type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// User is a marketplace member. Rating fields belong to the rating aggregator,
// tier fields to the subscription manager and Balance to settlement.
type User struct {
	ID                  string             `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DisplayName         string             `gorm:"type:varchar(100);not null" json:"display_name"`
	City                string             `gorm:"type:varchar(100);index" json:"city"`
	Interests           StringSet          `json:"interests"`
	IsAvailable         bool               `gorm:"index;default:false" json:"is_available"`
	AverageRating       float64            `gorm:"index;default:0" json:"average_rating"`
	RatingSum           int64              `gorm:"default:0" json:"-"`
	TotalRatings        int64              `gorm:"default:0" json:"total_ratings"`
	CompletedActivities int64              `gorm:"default:0" json:"completed_activities"`
	SubscriptionTier    SubscriptionTier   `gorm:"type:varchar(20);default:'none'" json:"subscription_tier"`
	SubscriptionActive  bool               `gorm:"default:false" json:"subscription_active"`
	Verification        VerificationStatus `gorm:"type:varchar(20);default:'none'" json:"verification"`
	Balance             int64              `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	Version             int                `gorm:"not null;default:1" json:"version"`
}

// IsPremium reports whether the user pays the reduced commission rate.
func (u *User) IsPremium() bool {
	return u.SubscriptionTier == TierPremium && u.SubscriptionActive
}
