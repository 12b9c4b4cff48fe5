package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tastematch/backend/config"
	"github.com/tastematch/backend/internal/infrastructure/logging"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger = logging.OrNop(logger)

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", handler.SaveProfile)
			profiles.GET("/:userId", handler.GetProfile)
			profiles.DELETE("/:userId", handler.DeleteProfile)
		}

		users := v1.Group("/users/:userId")
		{
			users.GET("/matches", handler.FindMatches)
			users.GET("/matches/:otherId", handler.CompareUsers)
		}

		v1.POST("/match", handler.ScoreProfiles)
	}

	return router
}
