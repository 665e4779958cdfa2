package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"denimops/internal/jobs/background"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        *pgxpool.Pool
	scheduler *background.JobScheduler
}

func NewHealthHandlers(db *pgxpool.Pool, scheduler *background.JobScheduler) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		scheduler: scheduler,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}

func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetMetrics reports basic runtime and scheduler stats.
func (h *HealthHandlers) GetMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp":  time.Now().UTC(),
		"goroutines": runtime.NumGoroutine(),
		"database": map[string]interface{}{
			"max_connections": h.db.Config().MaxConns,
		},
		"jobs": h.scheduler.GetJobStatus(),
	})
}
