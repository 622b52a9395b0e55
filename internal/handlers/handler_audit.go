package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
)

type auditHandler struct {
	auditService portssvc.AuditService
}

// RegisterAuditRoutes registers the audit log read routes on a tenant-scoped group.
func RegisterAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditService) {
	h := &auditHandler{auditService: auditService}

	audit := rg.Group("/audit-logs")
	{
		audit.GET("", h.listTenantAuditLogs)
		audit.GET("/entities/:entity_id", h.getEntityAuditTrail)
	}
}

func (h *auditHandler) listTenantAuditLogs(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	logs, next, err := h.auditService.GetTenantAuditLogs(c.Request.Context(), tenantID, limit, nextToken)
	if err != nil {
		respondError(c, err, "list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(logs, next))
}

func (h *auditHandler) getEntityAuditTrail(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	logs, err := h.auditService.GetAuditTrail(c.Request.Context(), tenantID, c.Param("entity_id"))
	if err != nil {
		respondError(c, err, "retrieve audit trail")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAuditLogsResponse(logs, nil))
}
