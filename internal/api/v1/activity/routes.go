package activity

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/activities")
	{
		group.GET("/recommended", RecommendActivities)
		group.POST("", CreateActivity)
		group.GET("", ListActivities)
		group.GET("/:id", GetActivity)
		group.PATCH("/:id", UpdateActivity)
	}
}
