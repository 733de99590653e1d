package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mbeecher/beerworks/internal/audit"
	"github.com/mbeecher/beerworks/internal/beers"
	"github.com/mbeecher/beerworks/internal/bootstrap"
	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/config"
	"github.com/mbeecher/beerworks/internal/customers"
	"github.com/mbeecher/beerworks/internal/httpx"
	kafkax "github.com/mbeecher/beerworks/internal/kafka"
	"github.com/mbeecher/beerworks/internal/logger"
	"github.com/mbeecher/beerworks/internal/orders"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		lg.Fatal("db connect", "err", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		lg.Fatal("db migrate", "err", err)
	}

	// Redis
	rdb := cache.NewClient(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for audit events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic, 1024, lg)
	prod.Start(ctx)

	// Repos, cache, services
	beerRepo := &store.BeerRepo{DB: db}
	customerRepo := &store.CustomerRepo{DB: db}
	orderRepo := &store.OrderRepo{DB: db}

	coordinator := cache.NewCoordinator(rdb, lg)
	auditor := audit.NewPublisher(prod, cfg.ServiceName, lg)

	beerSvc := beers.NewService(beerRepo, coordinator, auditor, lg)
	customerSvc := customers.NewService(customerRepo, coordinator, lg)
	orderSvc := orders.NewService(orderRepo, customerRepo, beerRepo, coordinator, lg)

	if err := bootstrap.Seed(ctx, beerRepo, cfg.BeerCSVPath, lg); err != nil {
		lg.Fatal("csv seed", "err", err)
	}

	// Router
	router := httpx.NewRouter()
	(&httpx.BeerHandler{Svc: beerSvc}).Register(router)
	(&httpx.CustomerHandler{Svc: customerSvc}).Register(router)
	(&httpx.OrderHandler{Svc: orderSvc}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		lg.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	lg.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // flush remaining audit events
	prod.WaitClosed() // drain
}
