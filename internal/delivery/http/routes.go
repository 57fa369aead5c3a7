package http

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	logger = logging.OrNop(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxImageBytes

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(requestid.New())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/meal-plans", handler.GenerateMealPlan)

		foods := v1.Group("/foods")
		{
			foods.GET("", handler.ListFoods)
			foods.GET("/details", handler.GetFoodDetails)
			foods.POST("/detect", handler.DetectFoods)
		}
	}

	return router
}
