package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mbeecher/beerworks/internal/audit"
	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/config"
	kafkax "github.com/mbeecher/beerworks/internal/kafka"
	"github.com/mbeecher/beerworks/internal/logger"
	"github.com/mbeecher/beerworks/internal/postgres"
	"github.com/mbeecher/beerworks/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		lg.Fatal("db connect", "err", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		lg.Fatal("db migrate", "err", err)
	}

	rdb := cache.NewClient(cfg.RedisAddr)
	defer rdb.Close()

	rec := &audit.Recorder{
		Store: &store.AuditRepo{DB: db},
		Dedup: &audit.RedisDedup{RDB: rdb, Service: cfg.ServiceName + "-auditor"},
		Log:   lg,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, cfg.AuditTopic, cfg.AuditWorkers, lg)

	go func() {
		lg.Info("auditor consumer started",
			"group", cfg.AuditGroup, "topic", cfg.AuditTopic, "workers", cfg.AuditWorkers)
		if err := cons.Start(ctx, rec.HandleBeerEvent); err != nil {
			lg.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	lg.Info("shutting down auditor")
	cancel()
}
