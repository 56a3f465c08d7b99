package activity

import "time"

type CreateActivityRequest struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Description     string    `json:"description"`
	City            string    `json:"city"`
	Tags            []string  `json:"tags"`
	PriceMinorUnits int64     `json:"price_minor_units" binding:"required,gt=0"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
}

type UpdateActivityRequest struct {
	Title           *string    `json:"title" binding:"omitempty,max=200"`
	Description     *string    `json:"description"`
	City            *string    `json:"city"`
	Tags            []string   `json:"tags"`
	PriceMinorUnits *int64     `json:"price_minor_units"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
}

type ActivityListResponse struct {
	Activities interface{} `json:"activities"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}
