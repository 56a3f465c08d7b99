package rating

type SubmitRatingRequest struct {
	Score    int    `json:"score" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=2000"`
}
