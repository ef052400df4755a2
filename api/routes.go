package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/surfscribe/annotator-api/api/health"
	"github.com/surfscribe/annotator-api/api/sessions"
	"github.com/surfscribe/annotator-api/api/surfers"
	"github.com/surfscribe/annotator-api/api/types"
	"github.com/surfscribe/annotator-api/api/version"
	_ "github.com/surfscribe/annotator-api/docs/swagger"
	sessionsService "github.com/surfscribe/annotator-api/internal/services/sessions"
	"github.com/surfscribe/annotator-api/pkg/config"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	rps := config.GetInt("server.rate_limit_rps")
	burst := config.GetInt("server.rate_limit_burst")
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}

	// API v1 routes
	v1 := engine.Group("/api/v1")

	if deps.DB != nil && deps.DB.DB != nil {
		if deps.SessionService == nil {
			initializeSessionService(deps)
		}

		sessionGroup := v1.Group("/sessions")
		sessionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rps, burst))
		sessions.RegisterRoutes(sessionGroup, deps)
		surfers.RegisterRoutes(sessionGroup, deps)
	}

	return nil
}

// initializeSessionService creates and configures the session service
func initializeSessionService(deps *types.Dependencies) {
	repo := sessionsService.NewRepository(deps.DB.DB)

	timeout := config.GetDuration("probe.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	prober := ffmpeg.New(
		config.GetString("probe.ffmpeg_path"),
		config.GetString("probe.ffprobe_path"),
		timeout,
	)

	deps.SessionService = sessionsService.NewService(repo, prober, config.GetString("probe.video_dir"))
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
