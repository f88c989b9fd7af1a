package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/streamcart/order-saga/pkg/config"
	"github.com/streamcart/order-saga/pkg/idempotency"
	kafka2 "github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/utils"
	"github.com/streamcart/order-saga/services/inventory/internal/service"
	"github.com/streamcart/order-saga/services/inventory/internal/transport/kafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "inventory-service")
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

	mylogger.Info(ctx, logger, "Inventory service started")

	producer, err := kafka2.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	ledger := service.NewLedger(service.DefaultStockLevels())
	reservationService := service.NewStockReservationService(ledger, logger)
	guard := idempotency.NewGuard(cfg.Idempotency.Capacity)

	consumer := kafka.NewConsumer(reservationService, producer, guard, logger)
	consumer.Start(ctx, cfg.Kafka.Brokers)

	shutdownCtx, exit := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer exit()

	if err := producer.Close(); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error closing producer")
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error shutting down telemetry")
	}

	mylogger.Info(shutdownCtx, logger, "Inventory service stopped")
}
