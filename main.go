package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/icognita1702/festalog/docs" // swagger docs
	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/handlers"
	"github.com/icognita1702/festalog/internal/bot"
	"github.com/icognita1702/festalog/internal/freight"
	"github.com/icognita1702/festalog/internal/intent"
	"github.com/icognita1702/festalog/internal/notifier"
	"github.com/icognita1702/festalog/internal/repository"
	"github.com/icognita1702/festalog/internal/scheduler"
	"github.com/icognita1702/festalog/internal/service"
	"github.com/icognita1702/festalog/pkg/ai"
	"github.com/icognita1702/festalog/pkg/database"
	"github.com/icognita1702/festalog/pkg/gateway"
	"github.com/icognita1702/festalog/pkg/geo"
	"github.com/icognita1702/festalog/pkg/logger"
	"github.com/icognita1702/festalog/pkg/redis"
	"github.com/icognita1702/festalog/pkg/validator"
	"github.com/icognita1702/festalog/routes"
)

// @title Festalog Atendimento API
// @version 1.0
// @description WhatsApp bot, freight quoting and order reminders for Festalog Locações

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Debugf("No .env file loaded: %v", err)
	}

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Gateway.APIKey == "" {
		logger.Fatalf("GATEWAY_API_KEY is required but not set")
	}
	if cfg.AI.APIKey == "" {
		logger.Fatalf("GEMINI_API_KEY is required but not set")
	}
	if cfg.Auth.DashboardAPIKey == "" {
		logger.Fatalf("DASHBOARD_API_KEY is required but not set")
	}
	if cfg.Auth.SchedulerAPIKey == "" {
		logger.Fatalf("SCHEDULER_API_KEY is required but not set")
	}

	logger.Infof("Starting Festalog Atendimento...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, reply caching disabled: %v", err)
		redisClient = nil
	}

	// External clients
	gatewayClient := gateway.NewClient(cfg.Gateway)
	geocodeClient := geo.NewGeocodeClient(cfg.Geo)
	routingClient := geo.NewRoutingClient(cfg.Geo)

	aiClient, err := ai.NewClient(context.Background(), cfg.AI)
	if err != nil {
		logger.Fatalf("Failed to create AI client: %v", err)
	}

	// Repositories
	notificationRepo := repository.NewNotificationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)

	// Bot pipeline
	classifier := intent.NewClassifier(aiClient)
	sessions := bot.NewSessionStore()
	engine := bot.NewEngine(sessions, classifier, availabilityRepo, aiClient)

	var botService *service.BotService
	if redisClient != nil {
		botService = service.NewBotService(engine, gatewayClient, redisClient)
	} else {
		botService = service.NewBotService(engine, gatewayClient, nil)
	}

	// Freight and notifications
	calculator := freight.NewCalculator(geocodeClient, routingClient, cfg.Freight)
	generator := notifier.NewGenerator(orderRepo, notificationRepo)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize scheduler
	sched := scheduler.NewScheduler(generator, cfg.Notification.GenerateInterval)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, sched)
	webhookHandler := handlers.NewWebhookHandler(botService)
	freightHandler := handlers.NewFreightHandler(calculator, cfg.Freight)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, generator)
	orderHandler := handlers.NewOrderHandler(orderRepo)
	schedulerHandler := handlers.NewSchedulerHandler(sched, ctx, cfg)
	gatewayHandler := handlers.NewGatewayHandler(gatewayClient, botService)

	// Auto-start scheduler
	if os.Getenv("AUTO_START_SCHEDULER") != "false" {
		logger.Infof("Auto-starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start scheduler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-festa-auth-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, webhookHandler, freightHandler, notificationHandler, orderHandler, schedulerHandler, gatewayHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal all goroutines to stop
	cancel()

	// Stop scheduler first (with timeout)
	if sched.IsRunning() {
		logger.Infof("Stopping scheduler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping scheduler: %v", err)
			} else {
				logger.Infof("Scheduler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Scheduler stop timeout, forcing shutdown")
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
