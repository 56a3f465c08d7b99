package matching

type MatchQuery struct {
	Location  string  `form:"location"`
	MinRating float64 `form:"min_rating" binding:"gte=0,lte=5"`
	Interests string  `form:"interests"`
	Limit     int     `form:"limit" binding:"gte=0,lte=100"`
}
