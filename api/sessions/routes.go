package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/surfscribe/annotator-api/api/types"
)

// RegisterRoutes registers session-related routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("", CreateSession(deps))
	router.GET("", ListSessions(deps))
	router.POST("/import", ImportSession(deps))

	router.GET("/:uuid", GetSession(deps))
	router.DELETE("/:uuid", DeleteSession(deps))
	router.GET("/:uuid/statistics", GetStatistics(deps))
	router.GET("/:uuid/export", ExportSession(deps))
	router.GET("/:uuid/frame", GetFrame(deps))
}
