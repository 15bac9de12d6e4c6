package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/adapters/cache"
	"github.com/SscSPs/pocket_wallet/internal/adapters/database/memory"
	"github.com/SscSPs/pocket_wallet/internal/adapters/database/pgsql"
	"github.com/SscSPs/pocket_wallet/internal/adapters/events"
	"github.com/SscSPs/pocket_wallet/internal/adapters/push"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_wallet/internal/core/services"
	"github.com/SscSPs/pocket_wallet/internal/handlers"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/SscSPs/pocket_wallet/internal/platform/config"
	"github.com/SscSPs/pocket_wallet/internal/platform/scheduler"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/SscSPs/pocket_wallet/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout   = 15 * time.Second
	reconcileTimeout  = 5 * time.Minute
	eventStreamMaxLen = 100000
)

// @title Pocket Wallet API
// @version 1.0
// @description Peer-to-peer wallet backend: accounts, aliases, transfers and push notifications.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, dbPool, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Failed to close redis client", slog.String("error", err.Error()))
			}
		}()
		logger.Info("Redis client configured")
	}

	deps := services.Collaborators{}
	if redisClient != nil {
		deps.Cache = cache.NewRedisAccountCache(redisClient, cfg.AccountCacheTTL)
	}
	if deps.Push, err = setupPush(ctx, cfg); err != nil {
		logger.Error("Failed to initialize push transport", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if deps.Events, err = setupEvents(cfg, redisClient); err != nil {
		logger.Error("Failed to initialize event publisher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Collaborators configured",
		slog.String("storage", cfg.StorageDriver),
		slog.String("push", cfg.PushProvider),
		slog.String("events", cfg.EventsDriver),
		slog.Bool("cache", deps.Cache != nil))

	serviceContainer := services.NewServiceContainer(cfg, repos, deps)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authLimiter, err := middleware.NewLimiter(cfg.AuthRateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, authLimiter); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jobs := scheduler.New(logger, reconcileTimeout)
	err = jobs.Register(cfg.ReconcileSchedule, "reconcile_balances", func(ctx context.Context) error {
		_, err := serviceContainer.Reconciliation.Run(ctx)
		return err
	})
	if err != nil {
		logger.Error("Failed to schedule reconciliation", slog.String("error", err.Error()))
		os.Exit(1)
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		logger.Warn("Scheduler did not stop cleanly", slog.String("error", err.Error()))
	}
	// Pending pushes and events are flushed after the last request has finished.
	if err := serviceContainer.Notifications.Close(shutdownCtx); err != nil {
		logger.Warn("Notification dispatcher did not drain", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")

	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}

// setupStorage returns the repository provider for the configured driver. The pool is nil
// for the in-memory store.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, *pgxpool.Pool, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory account store; data is lost on restart")
		return memory.NewRepositoryProvider(), nil, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), dbPool, nil
}

func setupPush(ctx context.Context, cfg *config.Config) (ports.PushTransport, error) {
	switch cfg.PushProvider {
	case config.PushFCM:
		return push.NewFCMTransport(ctx, cfg.FirebaseServiceAccount)
	case config.PushNone:
		return push.NoopTransport{}, nil
	default:
		return push.NewExpoTransport(cfg.ExpoPushURL, nil), nil
	}
}

func setupEvents(cfg *config.Config, redisClient *redis.Client) (ports.EventPublisher, error) {
	switch cfg.EventsDriver {
	case config.EventsRedis:
		if redisClient == nil {
			return nil, errors.New("redis events driver requires REDIS_URL")
		}
		return events.NewRedisStreamPublisher(redisClient, cfg.EventsStream, eventStreamMaxLen), nil
	case config.EventsRabbitMQ:
		return events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsStream)
	case config.EventsKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsStream), nil
	default:
		return events.NoopPublisher{}, nil
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}
