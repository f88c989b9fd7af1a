package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamcart/order-saga/pkg/correlation"
	common "github.com/streamcart/order-saga/pkg/domain"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/order/internal/repository"
	"github.com/streamcart/order-saga/services/order/internal/service"
	"go.uber.org/zap"
)

type createOrderRequest struct {
	CustomerID string           `json:"customerId" binding:"required"`
	Lines      []orderLineInput `json:"lines" binding:"required,min=1,dive"`
	Total      string           `json:"total" binding:"required"`
}

type orderLineInput struct {
	SKU string `json:"sku" binding:"required"`
	Qty int    `json:"qty" binding:"required,gt=0"`
}

type Handler struct {
	orders *service.OrderService
	logger *zap.Logger
}

func NewHandler(orders *service.OrderService, logger *zap.Logger) *Handler {
	return &Handler{
		orders: orders,
		logger: logger,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	router.Use(correlation.Middleware())
	router.POST("/orders", h.createOrder)
	router.GET("/orders/:id", h.getOrder)
}

func (h *Handler) createOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]common.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, common.OrderLine{SKU: line.SKU, Qty: line.Qty})
	}

	order, err := h.orders.CreateOrder(ctx, req.CustomerID, lines, req.Total)
	if err != nil {
		mylogger.Error(ctx, h.logger, "Failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		mylogger.Error(ctx, h.logger, "Failed to load order", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, order)
}
