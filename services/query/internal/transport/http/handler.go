package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamcart/order-saga/pkg/correlation"
	"github.com/streamcart/order-saga/pkg/mylogger"
	"github.com/streamcart/order-saga/services/query/internal/repository"
	"github.com/streamcart/order-saga/services/query/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	projector *service.MaterializedViewProjector
	logger    *zap.Logger
}

func NewHandler(projector *service.MaterializedViewProjector, logger *zap.Logger) *Handler {
	return &Handler{
		projector: projector,
		logger:    logger,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	router.Use(correlation.Middleware())
	router.GET("/orders/:id", h.getOrder)
}

func (h *Handler) getOrder(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	view, err := h.projector.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrViewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		mylogger.Error(ctx, h.logger, "Failed to load order view", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, view)
}
