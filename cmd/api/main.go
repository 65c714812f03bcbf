package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/antispam"
	"github.com/delbi-restaurant/reservations-api/internal/config"
	"github.com/delbi-restaurant/reservations-api/internal/handlers"
	"github.com/delbi-restaurant/reservations-api/internal/logging"
	"github.com/delbi-restaurant/reservations-api/internal/middleware"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/services"
	"github.com/delbi-restaurant/reservations-api/internal/store"

	_ "github.com/delbi-restaurant/reservations-api/docs"
)

// @title           Delbi Reservations API
// @version         1.0
// @description     API for the Delbi Restaurant reservation workflow: email-verified customer reservations and an admin back-office for managing them.

// @contact.name   Delbi Restaurant
// @contact.email  reservations@delbirestaurant.com

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name reservations
// @tag.description Customer reservation workflow

// @tag.name admin
// @tag.description Admin back-office operations

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	if err := config.InitDataStore(); err != nil {
		logging.Logger.Fatal("failed to connect to database", zap.Error(err))
	}
	config.InitRedis()

	_, usingFallback := config.DB.(*store.MemoryStore)

	// Wire services and handlers
	mailer := services.NewSMTPMailer(config.AppConfig)
	verification := services.NewVerificationService(
		config.DB, mailer,
		config.AppConfig.VerificationCollection,
		config.AppConfig.VerificationCodeTTL,
	)
	reservations := services.NewReservationService(
		config.DB, mailer,
		config.AppConfig.ReservationCollection,
	)
	guard := antispam.NewSessionGuard(config.Redis)

	public := handlers.NewReservationHandler(reservations, verification, guard, usingFallback)
	admin := handlers.NewAdminReservationHandler(reservations)

	// Set Gin mode
	if config.AppConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.HealthCheck(config.DB))

		v1.POST("/reservations", public.CreateReservation)
		v1.POST("/reservations/verification", public.SendVerification)
		v1.POST("/reservations/verification/confirm", public.ConfirmVerification)

		adminAuth := []gin.HandlerFunc{
			middleware.AuthMiddleware(config.AppConfig.JWTSecret),
			middleware.RequireAdmin(),
		}
		v1.GET("/reservations", append(adminAuth, admin.ListReservations)...)
		v1.PUT("/reservations", append(adminAuth, admin.UpdateReservation)...)
		v1.DELETE("/reservations", append(adminAuth, admin.DeleteReservation)...)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
			zap.Bool("memory_fallback", usingFallback),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
