package subscription

type CreateSubscriptionRequest struct {
	PlanID string `json:"plan_id" binding:"required,oneof=basic pro premium"`
}
