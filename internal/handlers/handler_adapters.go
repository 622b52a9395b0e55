package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

// adapterHandler exposes the assessment, payment and refund flows.
type adapterHandler struct {
	assessmentService portssvc.AssessmentService
	paymentService    portssvc.PaymentService
	refundService     portssvc.RefundService
	now               func() time.Time
}

// RegisterAdapterRoutes registers the tax adapter routes on a tenant-scoped group.
func RegisterAdapterRoutes(rg *gin.RouterGroup, assessments portssvc.AssessmentService, payments portssvc.PaymentService, refunds portssvc.RefundService) {
	h := &adapterHandler{
		assessmentService: assessments,
		paymentService:    payments,
		refundService:     refunds,
		now:               time.Now,
	}

	rg.POST("/assessments", h.postAssessment)

	paymentRoutes := rg.Group("/payments")
	{
		paymentRoutes.POST("", h.processPayment)
		paymentRoutes.GET("/:payment_id", h.getPayment)
	}

	refundRoutes := rg.Group("/refunds")
	{
		refundRoutes.POST("", h.requestRefund)
		refundRoutes.GET("/:refund_id", h.getRefund)
		refundRoutes.POST("/:refund_id/issue", h.issueRefund)
	}
}

func (h *adapterHandler) postAssessment(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "post assessment")
		return
	}
	assessment, err := req.ToAssessment(tenantID)
	if err != nil {
		respondError(c, err, "post assessment")
		return
	}

	posting, err := h.assessmentService.Assess(c.Request.Context(), assessment, actor)
	if err != nil {
		respondError(c, err, "post assessment")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Assessment posted", slog.String("assessment_id", assessment.AssessmentID), slog.String("filer_entry_id", posting.Filer.EntryID))
	c.JSON(http.StatusCreated, dto.ToAssessmentResponse(posting))
}

func (h *adapterHandler) processPayment(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "process payment")
		return
	}
	paymentReq, err := req.ToPaymentRequest(tenantID)
	if err != nil {
		respondError(c, err, "process payment")
		return
	}

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), paymentReq, actor)
	if err != nil {
		respondError(c, err, "process payment")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Payment processed", slog.String("payment_id", payment.PaymentID), slog.String("status", string(payment.Status)))
	status := http.StatusCreated
	if payment.Status != domain.PaymentApproved {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToPaymentResponse(payment))
}

func (h *adapterHandler) getPayment(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), tenantID, c.Param("payment_id"))
	if err != nil {
		respondError(c, err, "retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

func (h *adapterHandler) requestRefund(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request refund")
		return
	}
	refundReq, err := req.ToRefundRequest(tenantID)
	if err != nil {
		respondError(c, err, "request refund")
		return
	}

	refund, err := h.refundService.RequestRefund(c.Request.Context(), refundReq, actor)
	if err != nil {
		respondError(c, err, "request refund")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Refund requested", slog.String("refund_id", refund.RefundID))
	c.JSON(http.StatusCreated, dto.ToRefundResponse(refund))
}

func (h *adapterHandler) issueRefund(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.IssueRefundRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "issue refund")
			return
		}
	}
	issueDate := domain.DateOnly(h.now().UTC())
	if req.IssueDate != "" {
		parsed, err := dto.ParseDate("issueDate", req.IssueDate)
		if err != nil {
			respondError(c, err, "issue refund")
			return
		}
		issueDate = parsed
	}

	refund, err := h.refundService.IssueRefund(c.Request.Context(), tenantID, c.Param("refund_id"), issueDate, req.Amount, actor)
	if err != nil {
		respondError(c, err, "issue refund")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Refund issued", slog.String("refund_id", refund.RefundID))
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}

func (h *adapterHandler) getRefund(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	refund, err := h.refundService.GetRefund(c.Request.Context(), tenantID, c.Param("refund_id"))
	if err != nil {
		respondError(c, err, "retrieve refund")
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}
