package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/streamcart/order-saga/pkg/config"
	"github.com/streamcart/order-saga/pkg/idempotency"
	kafka2 "github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/utils"
	"github.com/streamcart/order-saga/services/payment/internal/service"
	"github.com/streamcart/order-saga/services/payment/internal/transport/kafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	threshold, err := decimal.NewFromString(cfg.Payment.ApprovalThreshold)
	if err != nil {
		log.Fatalf("invalid approval threshold %q: %v", cfg.Payment.ApprovalThreshold, err)
	}

	tp, err := utils.InitTracer(ctx, "payment-service")
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

	mylogger.Info(ctx, logger, "Payment service started")

	producer, err := kafka2.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	authorizationService := service.NewPaymentAuthorizationService(threshold, logger)
	guard := idempotency.NewGuard(cfg.Idempotency.Capacity)

	consumer := kafka.NewConsumer(authorizationService, producer, guard, logger)
	consumer.Start(ctx, cfg.Kafka.Brokers)

	shutdownCtx, exit := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer exit()

	if err := producer.Close(); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error closing producer")
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error shutting down telemetry")
	}

	mylogger.Info(shutdownCtx, logger, "Payment service stopped")
}
