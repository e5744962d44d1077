package router

import (
	"time"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/handlers"
	"github.com/ReviveTech/revive-backend/internal/ratelimit"
	"github.com/ReviveTech/revive-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config         *config.Config
	ContactHandler *handlers.ContactHandler
	HealthHandler  *handlers.HealthHandler
	RateLimiter    *ratelimit.Limiter
	Logger         *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	if len(deps.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
			deps.Logger.Warnw("Failed to set trusted proxies", "error", err)
		}
	}

	// Health and metrics routes
	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API group (v1)
	v1 := r.Group("/v1")
	{
		contact := v1.Group("/contact")
		{
			contact.GET("/token", deps.ContactHandler.IssueToken)
			// The limiter gates submissions before the pipeline runs.
			contact.POST("",
				middleware.ContactRateLimiter(
					deps.RateLimiter,
					deps.Config.RateLimit.Burst,
					time.Duration(deps.Config.RateLimit.RefillPeriodSeconds)*time.Second,
				),
				deps.ContactHandler.SubmitContact,
			)
		}
	}

	return r
}
