package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/icognita1702/festalog/environments"
	"github.com/icognita1702/festalog/handlers"
	"github.com/icognita1702/festalog/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	freightHandler *handlers.FreightHandler,
	notificationHandler *handlers.NotificationHandler,
	orderHandler *handlers.OrderHandler,
	schedulerHandler *handlers.SchedulerHandler,
	gatewayHandler *handlers.GatewayHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Gateway ingress: authenticated by the gateway's own key.
	e.POST("/webhook/whatsapp", webhookHandler.Receive)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Dashboard routes share one API key
	dashboard := v1.Group("", middlewares.APIKeyAuth(cfg.Auth.DashboardAPIKey))

	dashboard.POST("/freight/quote", freightHandler.Quote)

	dashboard.GET("/notifications", notificationHandler.GetAll)
	dashboard.GET("/notifications/stats", notificationHandler.GetStats)
	dashboard.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
	dashboard.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	dashboard.POST("/notifications/generate", notificationHandler.Generate)

	dashboard.GET("/orders/:id", orderHandler.GetByID)

	dashboard.GET("/gateway/status", gatewayHandler.GetStatus)
	dashboard.POST("/gateway/instance", gatewayHandler.CreateInstance)
	dashboard.DELETE("/gateway/session", gatewayHandler.Disconnect)
	dashboard.POST("/gateway/test", gatewayHandler.SendTest)
	dashboard.GET("/replies/cached", gatewayHandler.GetCachedReplies)

	// Scheduler routes with their own API key
	schedulerGroup := v1.Group("/scheduler", middlewares.APIKeyAuth(cfg.Auth.SchedulerAPIKey))

	schedulerGroup.POST("/start", schedulerHandler.StartScheduler)
	schedulerGroup.POST("/stop", schedulerHandler.StopScheduler)
	schedulerGroup.GET("/status", schedulerHandler.GetSchedulerStatus)
}
