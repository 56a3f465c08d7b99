package models

import "time"

// Activity is a paid activity published by a creator. Locked flips false→true
// once, when the first payment for it settles.
type Activity struct {
	ID              string     `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatorID       string     `gorm:"type:varchar(36);index;not null" json:"creator_id"`
	Title           string     `gorm:"type:varchar(200);not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	City            string     `gorm:"type:varchar(100);index" json:"city"`
	Tags            StringSet  `json:"tags"`
	PriceMinorUnits int64      `gorm:"not null;check:price_minor_units > 0" json:"price_minor_units"`
	ScheduledAt     time.Time  `gorm:"index;not null" json:"scheduled_at"`
	Locked          bool       `gorm:"index;default:false" json:"locked"`
	LockedAt        *time.Time `json:"locked_at,omitempty"`
	Version         int        `gorm:"not null;default:1" json:"version"`
}
