package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/metrics"
	mid "github.com/greentill2020-cloud/greentillcmsProd/gomicro/middleware"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/statestore"
	"github.com/greentill2020-cloud/greentillcmsProd/services/state-service/internal/handler"
	"github.com/greentill2020-cloud/greentillcmsProd/services/state-service/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "state-service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting state service", cfg.LogConfig()...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := statestore.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal("Failed to open state store", zap.String("backend", cfg.State.Backend), zap.Error(err))
	}
	defer store.Close()
	log.Info("State store ready", zap.String("backend", cfg.State.Backend))

	prometheus.InitMetrics()
	httpMetrics := metrics.NewHTTPMetrics(cfg.Metrics.Prefix)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, "If-Match"},
		ExposeHeaders: []string{"ETag"},
	}))
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	e.GET("/health", handler.HealthCheck(serviceName, store))
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	handler.NewStateHandler(store).Register(e)

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("State service stopped")
}
