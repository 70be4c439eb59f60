package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot migrate")
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	logger.Info("storefront schema migrated")
}
