package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns the health endpoint for a service backed by store
func HealthCheck(service string, store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.FromEcho(c).Warn("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status":  "unhealthy",
				"service": service,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": service,
		})
	}
}
