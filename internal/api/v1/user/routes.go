package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	me := router.Group("/users/me")
	{
		me.GET("", CurrentUser)
		me.POST("", CreateProfile)
		me.PATCH("", UpdateProfile)
	}
}
