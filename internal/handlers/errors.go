package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrIntegration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err at a level matching its class and writes the JSON error body.
// Internal failures get a generic message so storage details do not leak.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if logger == nil {
		logger = middleware.GetLoggerFromContext(c)
	}

	status := statusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
	case status == http.StatusBadGateway:
		logger.Error("Collaborator failed during "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// respondBindError answers a request body or query that could not be bound.
func respondBindError(c *gin.Context, err error, action string) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request for "+action, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// requestScope returns the tenant from the path and the actor set by RequireActor.
func requestScope(c *gin.Context) (tenantID, actor string, ok bool) {
	tenantID = c.Param("tenant_id")
	actor, ok = middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return tenantID, actor, true
}
