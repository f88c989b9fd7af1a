package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamcart/order-saga/pkg/correlation"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/analytics/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	aggregator *service.KpiAggregator
	logger     *zap.Logger
}

func NewHandler(aggregator *service.KpiAggregator, logger *zap.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     logger,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	router.Use(correlation.Middleware())
	router.GET("/kpis/status-counts", h.getStatusCounts)
}

func (h *Handler) getStatusCounts(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.aggregator.StatusCounts(ctx)
	if err != nil {
		mylogger.Error(ctx, h.logger, "Failed to load status counts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, counts)
}
