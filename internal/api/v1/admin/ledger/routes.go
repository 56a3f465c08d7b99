package ledger

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ledger", ListLedger)
	router.GET("/ledger/export", ExportLedger)
}
