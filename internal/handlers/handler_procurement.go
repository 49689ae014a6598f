package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/middleware"
)

// procurementHandler handles HTTP requests for purchase orders.
type procurementHandler struct {
	procurementSvc portssvc.ProcurementSvcFacade
}

func newProcurementHandler(procurementSvc portssvc.ProcurementSvcFacade) *procurementHandler {
	return &procurementHandler{procurementSvc: procurementSvc}
}

func registerProcurementRoutes(rg *gin.RouterGroup, procurementSvc portssvc.ProcurementSvcFacade) {
	h := newProcurementHandler(procurementSvc)
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:orderID", h.getOrder)
		orders.POST("/:orderID/approve", h.approveOrder)
		orders.POST("/:orderID/order", h.markOrdered)
		orders.POST("/:orderID/receive", h.receiveOrder)
		orders.POST("/:orderID/cancel", h.cancelOrder)
	}
}

func (h *procurementHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	order, err := h.procurementSvc.CreatePurchaseOrder(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create purchase order", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to create purchase order")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(order))
}

func (h *procurementHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.procurementSvc.ListPurchaseOrders(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list purchase orders", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to list purchase orders")})
		return
	}

	responses := make([]dto.PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.ToPurchaseOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *procurementHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	orderID := c.Param("orderID")

	order, err := h.procurementSvc.GetPurchaseOrderByID(c.Request.Context(), orderID)
	if err != nil {
		logger.Warn("Failed to get purchase order", slog.String("order_id", orderID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to retrieve purchase order")})
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(order))
}

func (h *procurementHandler) approveOrder(c *gin.Context) {
	h.lifecycle(c, "approve", h.procurementSvc.ApprovePurchaseOrder)
}

func (h *procurementHandler) markOrdered(c *gin.Context) {
	h.lifecycle(c, "order", h.procurementSvc.MarkOrdered)
}

func (h *procurementHandler) receiveOrder(c *gin.Context) {
	h.lifecycle(c, "receive", h.procurementSvc.ReceivePurchaseOrder)
}

func (h *procurementHandler) cancelOrder(c *gin.Context) {
	h.lifecycle(c, "cancel", h.procurementSvc.CancelPurchaseOrder)
}

// lifecycle runs one status transition, sharing the response and error
// handling across the four verbs.
func (h *procurementHandler) lifecycle(c *gin.Context, action string, fn func(ctx context.Context, orderID, actorID string) (*domain.PurchaseOrder, error)) {
	logger := middleware.GetLoggerFromContext(c)
	orderID := c.Param("orderID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	order, err := fn(c.Request.Context(), orderID, actorID)
	if err != nil {
		logger.Warn("Purchase order transition failed",
			slog.String("action", action),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to update purchase order")})
		return
	}

	logger.Info("Purchase order transition applied",
		slog.String("action", action),
		slog.String("order_id", orderID),
		slog.String("status", string(order.Status)),
	)
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(order))
}
