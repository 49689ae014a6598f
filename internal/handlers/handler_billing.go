package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openledgerhq/erp_backend/internal/core/ports/services"
	"github.com/openledgerhq/erp_backend/internal/dto"
	"github.com/openledgerhq/erp_backend/internal/middleware"
)

// billingHandler handles HTTP requests for invoices.
type billingHandler struct {
	billingSvc portssvc.BillingSvcFacade
}

func newBillingHandler(billingSvc portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingSvc: billingSvc}
}

func registerBillingRoutes(rg *gin.RouterGroup, billingSvc portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingSvc)
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listByCustomer)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/send", h.sendInvoice)
		invoices.POST("/:invoiceID/pay", h.recordPayment)
	}
}

func (h *billingHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	invoice, err := h.billingSvc.CreateInvoice(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to create invoice", slog.String("customer_id", req.CustomerID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to create invoice")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

func (h *billingHandler) listByCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	customerID := c.Query("customerID")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerID query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	invoices, err := h.billingSvc.ListInvoicesByCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("customer_id", customerID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to list invoices")})
		return
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *billingHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("invoiceID")

	invoice, err := h.billingSvc.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		logger.Warn("Failed to get invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to retrieve invoice")})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *billingHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("invoiceID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	invoice, err := h.billingSvc.SendInvoice(c.Request.Context(), invoiceID, actorID)
	if err != nil {
		logger.Warn("Failed to send invoice", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to send invoice")})
		return
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *billingHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("invoiceID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	invoice, err := h.billingSvc.RecordPayment(c.Request.Context(), invoiceID, actorID)
	if err != nil {
		logger.Warn("Failed to record payment", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to record payment")})
		return
	}

	logger.Info("Invoice payment recorded", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
