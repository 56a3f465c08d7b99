package user

import "activityhub-backend/internal/models"

type CreateProfileRequest struct {
	DisplayName string   `json:"display_name" binding:"required,max=100"`
	City        string   `json:"city" binding:"max=100"`
	Interests   []string `json:"interests"`
	IsAvailable bool     `json:"is_available"`
}

type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name" binding:"omitempty,max=100"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	Interests   []string `json:"interests"`
	IsAvailable *bool    `json:"is_available"`
}

// UserResponse is the caller's own profile, balance included.
type UserResponse struct {
	ID                  string                    `json:"id"`
	DisplayName         string                    `json:"display_name"`
	City                string                    `json:"city"`
	Interests           []string                  `json:"interests"`
	IsAvailable         bool                      `json:"is_available"`
	AverageRating       float64                   `json:"average_rating"`
	TotalRatings        int64                     `json:"total_ratings"`
	CompletedActivities int64                     `json:"completed_activities"`
	SubscriptionTier    models.SubscriptionTier   `json:"subscription_tier"`
	SubscriptionActive  bool                      `json:"subscription_active"`
	Verification        models.VerificationStatus `json:"verification"`
	Balance             int64                     `json:"balance"`
}

func NewUserResponse(u *models.User) UserResponse {
	interests := []string(u.Interests)
	if interests == nil {
		interests = []string{}
	}
	return UserResponse{
		ID:                  u.ID,
		DisplayName:         u.DisplayName,
		City:                u.City,
		Interests:           interests,
		IsAvailable:         u.IsAvailable,
		AverageRating:       u.AverageRating,
		TotalRatings:        u.TotalRatings,
		CompletedActivities: u.CompletedActivities,
		SubscriptionTier:    u.SubscriptionTier,
		SubscriptionActive:  u.SubscriptionActive,
		Verification:        u.Verification,
		Balance:             u.Balance,
	}
}
