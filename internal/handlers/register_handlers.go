package handlers

import (
	"net/http"

	"github.com/SscSPs/household_finance/cmd/docs"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/SscSPs/household_finance/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the infrastructure the routes need besides services.
// Nil fields disable the feature they serve.
type RouteDeps struct {
	CronLimiter  *limiter.Limiter
	WebSocketHub WebSocketConnector
	Tracker      middleware.EventTracker
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1")

	// Batch triggers authenticate with the cron secret, not a user token.
	cronGuards := []gin.HandlerFunc{middleware.CronSecretMiddleware(cfg.CronSecret)}
	if deps.CronLimiter != nil {
		cronGuards = append([]gin.HandlerFunc{middleware.RateLimit(deps.CronLimiter)}, cronGuards...)
	}
	registerCronRoutes(v1, services.RecurringIncome, services.RecurringTransaction, cronGuards...)

	setupAPIV1Routes(v1, cfg, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated part of /api/v1 and delegates to specific entity route registrations
func setupAPIV1Routes(
	v1 *gin.RouterGroup,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	authed := v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer), middleware.PosthogMiddleware(deps.Tracker))

	registerAccountRoutes(authed, service.Account, service.BalanceReconciler)
	registerTransactionRoutes(authed, service.Ledger)
	registerRecurringRoutes(authed, service.RecurringIncome, service.RecurringTransaction)
	registerGoalRoutes(authed, service.Goal)
	registerHouseholdRoutes(authed, service.Household)
	if deps.WebSocketHub != nil {
		registerWebSocketRoutes(authed, deps.WebSocketHub, service.Household)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
