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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/streamcart/order-saga/pkg/config"
	"github.com/streamcart/order-saga/pkg/idempotency"
	kafka2 "github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/utils"
	"github.com/streamcart/order-saga/services/analytics/internal/repository"
	"github.com/streamcart/order-saga/services/analytics/internal/service"
	transporthttp "github.com/streamcart/order-saga/services/analytics/internal/transport/http"
	"github.com/streamcart/order-saga/services/analytics/internal/transport/kafka"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "analytics-service")
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

	mylogger.Info(ctx, logger, "Analytics service started")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}

	producer, err := kafka2.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	counterStore := repository.NewRedisCounterStore(redisClient)
	aggregator := service.NewKpiAggregator(counterStore, logger)
	guard := idempotency.NewGuard(cfg.Idempotency.Capacity)

	consumer := kafka.NewConsumer(aggregator, producer, guard, logger)
	go consumer.Start(ctx, cfg.Kafka.Brokers)

	router := gin.Default()
	handler := transporthttp.NewHandler(aggregator, logger)
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

	if err := redisClient.Close(); err != nil {
		mylogger.Error(shutdownCtx, logger, "Error closing redis client")
	}

	mylogger.Info(shutdownCtx, logger, "Analytics service stopped")
}
