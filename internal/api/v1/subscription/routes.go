package subscription

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/subscriptions")
	{
		group.GET("/plans", ListPlans)
		group.GET("/status", GetStatus)
		group.POST("", CreateSubscription)
		group.DELETE("/:id", CancelSubscription)
	}
}
