package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sm8ta/webike_bike_registry/internal/config"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

type Router struct {
	router *gin.Engine
	server *http.Server
}

// NewRouter builds the engine. tokenService may be nil to leave /bikes open.
func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	metricsHandler http.Handler,
	bikeHandler *BikeHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware())

	// CORS
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeaderKey},
		ExposeHeaders: []string{"Content-Length", requestIDHeaderKey},
	}
	if cfg.AllowedOrigins == "" || cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.AllowedOrigins}
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Bikes routes
	bikes := router.Group("/bikes")
	if tokenService != nil {
		bikes.Use(AuthMiddleware(tokenService))
	}
	{
		bikes.GET("/:frame_number", bikeHandler.GetBike)
		bikes.PUT("/:frame_number", bikeHandler.SaveBike)
	}

	return &Router{
		router: router,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.URL, cfg.Port),
			Handler: router,
		},
	}, nil
}

// Serve blocks until the server stops. http.ErrServerClosed is not an error,
// so Serve after Shutdown returns nil without listening.
func (r *Router) Serve() error {
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) Addr() string {
	return r.server.Addr
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
