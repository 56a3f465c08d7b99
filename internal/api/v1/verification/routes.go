package verification

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/verification")
	{
		group.GET("/token", GetUploadToken)
		group.POST("/upload-url", CreateUploadURL)
	}
}
