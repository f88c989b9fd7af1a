package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/streamcart/order-saga/pkg/config"
	"github.com/streamcart/order-saga/pkg/db"
	"github.com/streamcart/order-saga/pkg/idempotency"
	kafka2 "github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/utils"
	"github.com/streamcart/order-saga/services/query/internal/repository"
	"github.com/streamcart/order-saga/services/query/internal/service"
	transporthttp "github.com/streamcart/order-saga/services/query/internal/transport/http"
	"github.com/streamcart/order-saga/services/query/internal/transport/kafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "query-service")
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{Level: "info", Env: cfg.Env})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	mylogger.Info(ctx, logger, "Query service started")

	migrationsPath := utils.ParseWithFallback("MIGRATIONS_PATH", "file://services/query/migrations")
	m, err := migrate.New(migrationsPath, cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Error running migrations: %v", err)
	}

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating postgres DB: %v", err)
	}

	producer, err := kafka2.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	viewStore := repository.NewPostgresViewStore(pool, logger)
	projector := service.NewMaterializedViewProjector(viewStore, logger)
	orderGuard := idempotency.NewGuard(cfg.Idempotency.Capacity)
	statusGuard := idempotency.NewGuard(cfg.Idempotency.Capacity)

	consumer := kafka.NewConsumer(projector, producer, orderGuard, statusGuard, logger)
	go consumer.Start(ctx, cfg.Kafka.Brokers)

	router := gin.Default()
	handler := transporthttp.NewHandler(projector, logger)
	handler.Register(router)

	server := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting http server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, exit := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer exit()

	if err := server.Shutdown(shutdownCtx); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error shutting down http server")
	}

	if err := producer.Close(); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error closing producer")
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error shutting down telemetry")
	}

	pool.Close()
	mylogger.Info(shutdownCtx, logger, "Query service stopped")
}
