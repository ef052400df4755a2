package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build information, set via ldflags at build time
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Get handles version requests
// @Summary      Service info
// @Description  Returns the service name and build information
// @Tags         version
// @Produce      json
// @Success      200 {object} map[string]interface{} "Build info"
// @Router       / [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Surf Ride Annotator API",
			"version":     Version,
			"commit":      Commit,
			"built":       Date,
			"description": "API for annotating surfer rides in session videos",
			"status":      "running",
		})
	}
}
