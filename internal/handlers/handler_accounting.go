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

// accountingHandler handles HTTP requests for the ledger.
type accountingHandler struct {
	accountingSvc portssvc.AccountingSvcFacade
}

func newAccountingHandler(accountingSvc portssvc.AccountingSvcFacade) *accountingHandler {
	return &accountingHandler{accountingSvc: accountingSvc}
}

func registerAccountingRoutes(rg *gin.RouterGroup, accountingSvc portssvc.AccountingSvcFacade) {
	h := newAccountingHandler(accountingSvc)
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries", h.postEntry)
		ledger.GET("/entries", h.listLines)
		ledger.GET("/trial-balance", h.getTrialBalance)
		ledger.GET("/references/:referenceType/:referenceID", h.getLinesByReference)
		ledger.POST("/references/:referenceType/:referenceID/reverse", h.reverseByReference)
	}
}

func (h *accountingHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	lines, err := h.accountingSvc.PostJournalEntry(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to post journal entry", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to post journal entry")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalLineResponses(lines))
}

func (h *accountingHandler) listLines(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	lines, err := h.accountingSvc.ListLines(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list journal lines", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to list journal lines")})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalLineResponses(lines))
}

func (h *accountingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	report, err := h.accountingSvc.GetTrialBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute trial balance", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to compute trial balance")})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *accountingHandler) getLinesByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	referenceType := c.Param("referenceType")
	referenceID := c.Param("referenceID")

	lines, err := h.accountingSvc.GetLinesByReference(c.Request.Context(), referenceID, referenceType)
	if err != nil {
		logger.Error("Failed to get lines by reference",
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()),
		)
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to retrieve journal lines")})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalLineResponses(lines))
}

func (h *accountingHandler) reverseByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	referenceType := c.Param("referenceType")
	referenceID := c.Param("referenceID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	lines, err := h.accountingSvc.ReverseByReference(c.Request.Context(), referenceID, referenceType, actorID)
	if err != nil {
		logger.Warn("Failed to reverse reference",
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()),
		)
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to reverse journal lines")})
		return
	}

	logger.Info("Reference reversed", slog.String("reference_id", referenceID), slog.Int("lines", len(lines)))
	c.JSON(http.StatusCreated, dto.ToJournalLineResponses(lines))
}
