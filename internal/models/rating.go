package models

import "time"

// Rating is immutable once written.
type Rating struct {
	ID           string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	TargetUserID string    `gorm:"type:varchar(36);index;not null" json:"target_user_id"`
	RaterID      string    `gorm:"type:varchar(36);index;not null" json:"rater_id"`
	Score        int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback,omitempty"`
}
