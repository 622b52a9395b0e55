package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
)

// reportingHandler serves trial balances and filer statements.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	statementService portssvc.StatementService
}

// RegisterReportingRoutes registers the report routes on a tenant-scoped group.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, statementService portssvc.StatementService) {
	h := &reportingHandler{reportingService: reportingService, statementService: statementService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/trial-balance/:year/:period", h.getTrialBalanceForPeriod)
	}
	rg.GET("/filers/:filer_id/statement", h.getFilerStatement)
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	asOf, err := dto.ParseOptionalDate("asOf", c.Query("asOf"))
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}

	tb, err := h.reportingService.GenerateTrialBalance(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

func (h *reportingHandler) getTrialBalanceForPeriod(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondError(c, &apperrors.InvalidPeriodError{Label: c.Param("year") + "/" + c.Param("period")}, "generate trial balance")
		return
	}

	tb, err := h.reportingService.GenerateTrialBalanceForPeriod(c.Request.Context(), tenantID, year, c.Param("period"))
	if err != nil {
		respondError(c, err, "generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

func (h *reportingHandler) getFilerStatement(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	startDate, err := dto.ParseOptionalDate("startDate", c.Query("startDate"))
	if err != nil {
		respondError(c, err, "generate filer statement")
		return
	}
	endDate, err := dto.ParseOptionalDate("endDate", c.Query("endDate"))
	if err != nil {
		respondError(c, err, "generate filer statement")
		return
	}

	statement, err := h.statementService.GenerateFilerStatement(c.Request.Context(), tenantID, c.Param("filer_id"), startDate, endDate)
	if err != nil {
		respondError(c, err, "generate filer statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToFilerStatementResponse(statement))
}
