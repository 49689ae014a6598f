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

// payrollHandler handles HTTP requests for payroll records.
type payrollHandler struct {
	payrollSvc portssvc.PayrollSvcFacade
}

func newPayrollHandler(payrollSvc portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollSvc: payrollSvc}
}

func registerPayrollRoutes(rg *gin.RouterGroup, payrollSvc portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollSvc)
	payroll := rg.Group("/payroll")
	{
		payroll.POST("", h.processPayroll)
		payroll.POST("/batch", h.processPayrollBatch)
		payroll.GET("/records/:payrollID", h.getPayroll)
		payroll.POST("/records/:payrollID/approve", h.approvePayroll)
		payroll.POST("/records/:payrollID/pay", h.payPayroll)
		payroll.GET("/employees/:employeeID", h.listByEmployee)
	}
}

func (h *payrollHandler) processPayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ProcessPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for processPayroll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	record, err := h.payrollSvc.ProcessPayroll(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to process payroll", slog.String("employee_id", req.EmployeeID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to process payroll")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPayrollResponse(record))
}

func (h *payrollHandler) processPayrollBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.ProcessPayrollBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for processPayrollBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	records, err := h.payrollSvc.ProcessPayrollBatch(c.Request.Context(), req, actorID)
	if err != nil {
		logger.Warn("Failed to process payroll batch", slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to process payroll batch")})
		return
	}

	responses := make([]dto.PayrollResponse, len(records))
	for i := range records {
		responses[i] = dto.ToPayrollResponse(&records[i])
	}
	c.JSON(http.StatusCreated, responses)
}

func (h *payrollHandler) getPayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	payrollID := c.Param("payrollID")

	record, err := h.payrollSvc.GetPayrollByID(c.Request.Context(), payrollID)
	if err != nil {
		logger.Warn("Failed to get payroll record", slog.String("payroll_id", payrollID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to retrieve payroll record")})
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollResponse(record))
}

func (h *payrollHandler) approvePayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	payrollID := c.Param("payrollID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	record, err := h.payrollSvc.ApprovePayroll(c.Request.Context(), payrollID, actorID)
	if err != nil {
		logger.Warn("Failed to approve payroll", slog.String("payroll_id", payrollID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to approve payroll")})
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollResponse(record))
}

func (h *payrollHandler) payPayroll(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	payrollID := c.Param("payrollID")

	actorID, _ := middleware.GetActorIDFromContext(c)
	record, err := h.payrollSvc.PayPayroll(c.Request.Context(), payrollID, actorID)
	if err != nil {
		logger.Warn("Failed to pay payroll", slog.String("payroll_id", payrollID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to pay payroll")})
		return
	}

	logger.Info("Payroll paid", slog.String("payroll_id", payrollID))
	c.JSON(http.StatusOK, dto.ToPayrollResponse(record))
}

func (h *payrollHandler) listByEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	employeeID := c.Param("employeeID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.payrollSvc.ListPayrollByEmployee(c.Request.Context(), employeeID, limit, offset)
	if err != nil {
		logger.Error("Failed to list payroll records", slog.String("employee_id", employeeID), slog.String("error", err.Error()))
		c.JSON(statusForError(err), gin.H{"error": clientMessage(err, "Failed to list payroll records")})
		return
	}

	responses := make([]dto.PayrollResponse, len(records))
	for i := range records {
		responses[i] = dto.ToPayrollResponse(&records[i])
	}
	c.JSON(http.StatusOK, responses)
}
