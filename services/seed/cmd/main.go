package main

import (
	"context"
	"flag"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/statestore"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"go.uber.org/zap"
)

const serviceName = "seed"

func main() {
	onlyMissing := flag.Bool("only-missing", false, "leave keys that already hold data untouched")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := statestore.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open state store", zap.String("backend", cfg.State.Backend), zap.Error(err))
	}
	defer store.Close()

	operators, err := fixtures.Operators(cfg.Seed)
	if err != nil {
		log.Fatal("Failed to prepare operator accounts", zap.Error(err))
	}
	seeded := storage.NewService(store, log)
	now := time.Now()

	if *onlyMissing {
		if err := seeded.Init(ctx, fixtures.Collections(now, operators)); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Seeded missing collections")
		return
	}

	if err := fixtures.Write(ctx, seeded, now, operators); err != nil {
		log.Fatal("Failed to write collections", zap.Error(err))
	}
	log.Info("Seed complete",
		zap.String("backend", cfg.State.Backend),
		zap.Strings("keys", storage.Keys))
}
