package rating

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/users/:id/ratings")
	{
		group.POST("", SubmitRating)
		group.GET("", ListRatings)
	}
}
