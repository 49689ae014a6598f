package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/middleware"
)

// inventoryHandler handles HTTP requests for inventory items.
type inventoryHandler struct {
	inventorySvc portssvc.InventorySvcFacade
}

func newInventoryHandler(inventorySvc portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventorySvc: inventorySvc}
}

func registerInventoryRoutes(rg *gin.RouterGroup, inventorySvc portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventorySvc)
	items := rg.Group("/inventory/items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/:sku", h.getItem)
		items.POST("/:sku/adjust", h.adjustStock)
		items.POST("/:sku/reserve", h.reserveStock)
		items.POST("/:sku/fulfill", h.fulfillReservation)
		items.POST("/:sku/receive", h.receiveStock)
	}
}

func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	item, err := h.inventorySvc.CreateItem(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create inventory item", slog.String("sku", req.SKU), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to create inventory item")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToInventoryItemResponse(item))
}

func (h *inventoryHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.inventorySvc.ListItems(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list inventory items", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to list inventory items")})
		return
	}

	responses := make([]dto.InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = dto.ToInventoryItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *inventoryHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	sku := c.Param("sku")

	item, err := h.inventorySvc.GetItemBySKU(c.Request.Context(), sku)
	if err != nil {
		logger.Warn("Failed to get inventory item", slog.String("sku", sku), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to retrieve inventory item")})
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

func (h *inventoryHandler) adjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	h.mutate(c, "adjust", &req, func(c *gin.Context, sku, actorID string) (*domain.InventoryItem, error) {
		return h.inventorySvc.AdjustStock(c.Request.Context(), sku, req, actorID)
	})
}

func (h *inventoryHandler) reserveStock(c *gin.Context) {
	var req dto.ReserveStockRequest
	h.mutate(c, "reserve", &req, func(c *gin.Context, sku, actorID string) (*domain.InventoryItem, error) {
		return h.inventorySvc.ReserveStock(c.Request.Context(), sku, req, actorID)
	})
}

func (h *inventoryHandler) fulfillReservation(c *gin.Context) {
	var req dto.FulfillReservationRequest
	h.mutate(c, "fulfill", &req, func(c *gin.Context, sku, actorID string) (*domain.InventoryItem, error) {
		return h.inventorySvc.FulfillReservation(c.Request.Context(), sku, req, actorID)
	})
}

func (h *inventoryHandler) receiveStock(c *gin.Context) {
	var req dto.ReceiveStockRequest
	h.mutate(c, "receive", &req, func(c *gin.Context, sku, actorID string) (*domain.InventoryItem, error) {
		return h.inventorySvc.ReceiveStock(c.Request.Context(), sku, req, actorID)
	})
}

// mutate binds the request body, resolves the actor, and runs one stock
// mutation, sharing the response and error handling across the four verbs.
func (h *inventoryHandler) mutate(c *gin.Context, action string, req any, fn func(c *gin.Context, sku, actorID string) (*domain.InventoryItem, error)) {
	logger := middleware.GetLoggerFromContext(c)
	sku := c.Param("sku")

	if err := c.ShouldBindJSON(req); err != nil {
		logger.Error("Failed to bind JSON for stock mutation",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	item, err := fn(c, sku, actorID)
	if err != nil {
		logger.Warn("Stock mutation failed",
			slog.String("action", action),
			slog.String("sku", sku),
			slog.String("error", err.Error()),
		)
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to update stock")})
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}
