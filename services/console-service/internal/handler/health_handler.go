package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck reads one key to confirm the storage backend answers
func (h *Handler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if _, err := h.store.Get(ctx, storage.KeyProducts); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.FromEcho(c).Warn("Health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unhealthy",
			"service": "console-service",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "console-service",
	})
}
