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
	"github.com/streamcart/order-saga/pkg/config"
	"github.com/streamcart/order-saga/pkg/kafka"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/pkg/utils"
	"github.com/streamcart/order-saga/services/order/internal/repository"
	"github.com/streamcart/order-saga/services/order/internal/service"
	transporthttp "github.com/streamcart/order-saga/services/order/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "order-service")
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

	mylogger.Info(ctx, logger, "Order service started")

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	store := repository.NewMemoryOrderStore()
	orders := service.NewOrderService(store, producer, logger)

	router := gin.Default()
	handler := transporthttp.NewHandler(orders, logger)
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

	mylogger.Info(shutdownCtx, logger, "Order service stopped")
}
