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
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/jwtutil"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/metrics"
	mid "github.com/greentill2020-cloud/greentillcmsProd/gomicro/middleware"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/internal/handler"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "console-service"

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

	log.Info("Starting console service", cfg.LogConfig()...)

	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	store := storage.NewService(backend, log)
	defer store.Close()

	operators, err := fixtures.Operators(cfg.Seed)
	if err != nil {
		log.Fatal("Failed to prepare operator accounts", zap.Error(err))
	}
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.Init(initCtx, fixtures.Collections(time.Now(), operators))
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	log.Info("Storage initialized", zap.Bool("remote", cfg.Storage.RemoteEnabled))

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	prometheus.InitMetrics()
	httpMetrics := metrics.NewHTTPMetrics(cfg.Metrics.Prefix)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	handler.New(store, jwtUtil, log).Register(e)

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
	log.Info("Console service stopped")
}
