package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/adapters/cache"
	"github.com/comitanigiacomo/zen-producer/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	TaskHandler     *TaskHandler
	TemplateHandler *TemplateHandler
	StatsHandler    *StatsHandler
	FeedbackHandler *FeedbackHandler
	CoachHandler    *CoachHandler
	TokenService    *services.TokenService

	// DB is nil when running on in-memory storage.
	DB     *sqlx.DB
	Redis  *redis.Client
	Logger *zap.Logger

	StartTime  time.Time
	RateLimit  int
	RateWindow time.Duration
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	RegisterValidators()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow, logger))
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := cache.Status(c.Request.Context(), deps.Redis)

		statusCode := http.StatusOK
		status := "ok"
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.StatsHandler.RegisterRoutes(protected)
		deps.TaskHandler.RegisterRoutes(protected)
		deps.TemplateHandler.RegisterRoutes(protected)
		deps.FeedbackHandler.RegisterRoutes(protected)
		deps.CoachHandler.RegisterRoutes(protected)
	}

	return router
}
