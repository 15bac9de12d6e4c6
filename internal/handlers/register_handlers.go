package handlers

import (
	"fmt"

	"github.com/SscSPs/pocket_wallet/cmd/docs"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/SscSPs/pocket_wallet/internal/platform/config"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// authLimiter throttles the credential routes; nil builds an in-memory one from cfg.AuthRateLimit.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidations(v); err != nil {
			return fmt.Errorf("failed to register validations: %w", err)
		}
	}

	if authLimiter == nil {
		l, err := middleware.NewLimiter(cfg.AuthRateLimit, nil)
		if err != nil {
			return err
		}
		authLimiter = l
	}

	r.GET("/health", getHealth)

	accounts := r.Group("/accounts")
	registerAuthRoutes(accounts, services.Auth, middleware.RateLimit(authLimiter))

	// Everything except the credential routes may require a session.
	protected := accounts.Group("")
	if cfg.RequireAuth {
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}
	registerTransferRoutes(protected, services.Transfer)
	registerAccountRoutes(protected, services.Account)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
