package app

import (
	"context"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
	redisClient "github.com/redis/go-redis/v9"

	"github.com/sm8ta/webike_bike_registry/internal/adapter/handler/http"
	"github.com/sm8ta/webike_bike_registry/internal/adapter/logger"
	"github.com/sm8ta/webike_bike_registry/internal/adapter/prometheus"
	"github.com/sm8ta/webike_bike_registry/internal/adapter/redis"
	"github.com/sm8ta/webike_bike_registry/internal/adapter/storage"
	"github.com/sm8ta/webike_bike_registry/internal/config"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
	"github.com/sm8ta/webike_bike_registry/internal/core/services"
)

type App struct {
	Config      *config.Container
	Logger      ports.LoggerPort
	Gateway     *storage.Gateway
	RedisClient *redisClient.Client
	BikeService *services.BikeService
	HTTPRouter  *http.Router
}

// New opens the store and builds the core. The HTTP router is only built
// by Router, so the terminal form does not pay for it.
func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env, cfg.Log.Level, cfg.Log.Path)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":    cfg.App.Name,
		"env":    cfg.App.Env,
		"driver": cfg.DB.Driver,
	})

	// Set redis
	var (
		redisConn *redisClient.Client
		cache     ports.CachePort
	)
	if cfg.Redis.Enabled() {
		redisConn = redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := redisConn.Ping(ctx).Result(); err != nil {
			redisConn.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cache = redis.NewRedisAdapter(redisConn)
	}

	// Connect DB, bootstrap schema, prepare statements
	gateway, err := storage.Open(ctx, storage.Options{
		Driver:        cfg.DB.Driver,
		DSN:           cfg.DB.DSN(),
		MigrationsDir: cfg.DB.MigrationsDir,
		Logger:        loggerAdapter,
	})
	if err != nil {
		if redisConn != nil {
			redisConn.Close()
		}
		return nil, err
	}

	// Repositories
	bikeRepo := storage.NewBikeRepository(gateway)

	// Services
	bikeService := services.NewBikeService(bikeRepo, loggerAdapter, cache, cfg.Redis.TTL)

	return &App{
		Config:      cfg,
		Logger:      loggerAdapter,
		Gateway:     gateway,
		RedisClient: redisConn,
		BikeService: bikeService,
	}, nil
}

// Router builds the HTTP API on top of the core.
func (a *App) Router() (*http.Router, error) {
	if a.HTTPRouter != nil {
		return a.HTTPRouter, nil
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter(prom.DefaultRegisterer)

	// HTTP Handlers
	var tokenService ports.TokenService
	if a.Config.Token.Secret != "" {
		tokenService = http.NewJWTTokenService(a.Config.Token.Secret, a.Logger)
	} else {
		a.Logger.Warn("TOKEN_SECRET is empty, /bikes is not protected", nil)
	}
	bikeHandler := http.NewBikeHandler(a.BikeService, a.Logger, metrics)

	// Init HTTP router
	router, err := http.NewRouter(
		a.Config.HTTP,
		tokenService,
		nil,
		bikeHandler,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	a.HTTPRouter = router
	return router, nil
}

// Run serves the HTTP API until Stop is called.
func (a *App) Run() error {
	router, err := a.Router()
	if err != nil {
		return err
	}

	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": router.Addr(),
	})

	if err := router.Serve(); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stop shuts everything down
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	if a.HTTPRouter != nil {
		if err := a.HTTPRouter.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Close database
	if err := a.Gateway.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("Redis close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	a.Logger.Info("Application stopped successfully", nil)
	_ = a.Logger.Sync()
	return nil
}
