package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/icognita1702/festalog/pkg/redis"
)

type schedulerState interface {
	IsRunning() bool
}

// HealthHandler reports liveness of the service and its dependencies.
// The database is mandatory; Redis and the scheduler only degrade.
type HealthHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	scheduler    schedulerState
	checkTimeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, sched schedulerState) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		scheduler:    sched,
		checkTimeout: 2 * time.Second,
	}
}

// Health godoc
// @Summary Health check
// @Description Returns overall status with database, Redis and scheduler states
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"
	httpStatus := http.StatusOK

	dbStatus := "up"
	if h.db == nil {
		dbStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
	}
	if dbStatus == "down" {
		overallStatus = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	redisStatus := "disabled"
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
			if overallStatus == "ok" {
				overallStatus = "degraded"
			}
		} else {
			redisStatus = "up"
		}
	}

	schedulerStatus := "stopped"
	if h.scheduler != nil && h.scheduler.IsRunning() {
		schedulerStatus = "running"
	}

	return c.JSON(httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database": map[string]any{
				"status": dbStatus,
			},
			"redis": map[string]any{
				"status": redisStatus,
			},
			"scheduler": map[string]any{
				"status": schedulerStatus,
			},
		},
	})
}
