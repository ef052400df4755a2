package surfers

import (
	"github.com/gin-gonic/gin"

	"github.com/surfscribe/annotator-api/api/types"
)

// RegisterRoutes registers surfer annotation routes on the sessions group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	surfersGroup := router.Group("/:uuid/surfers")
	{
		surfersGroup.POST("", AddSurfer(deps))
		surfersGroup.GET("/at", GetSurfersAt(deps))
		surfersGroup.DELETE("/active", ClearActive(deps))

		surfersGroup.DELETE("/:id", DeleteSurfer(deps))
		surfersGroup.PUT("/:id/start", SetStartTime(deps))
		surfersGroup.PUT("/:id/end", SetEndTime(deps))
		surfersGroup.PUT("/:id/bbox", SetBBox(deps))
		surfersGroup.GET("/:id/bbox", GetBBoxAt(deps))
		surfersGroup.PUT("/:id/quality", SetQuality(deps))
		surfersGroup.PUT("/:id/active", SetActive(deps))
		surfersGroup.POST("/:id/bbox-samples", AddBBoxSample(deps))
	}
}
