package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers the journal entry routes on a tenant-scoped group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntriesBySource)
		entries.GET("/:entry_id", h.getEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

func (h *journalHandler) postEntry(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "post journal entry")
		return
	}
	postingReq, err := req.ToPostingRequest(tenantID, actor)
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), postingReq)
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) getEntry(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), tenantID, c.Param("entry_id"))
	if err != nil {
		respondError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *journalHandler) listEntriesBySource(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	sourceType := c.Query("sourceType")
	sourceID := c.Query("sourceID")
	if sourceType == "" || sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceType and sourceID query parameters are required"})
		return
	}

	entries, err := h.journalService.ListEntriesBySource(c.Request.Context(), tenantID, domain.SourceType(sourceType), sourceID)
	if err != nil {
		respondError(c, err, "list journal entries")
		return
	}
	resp := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		resp[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, gin.H{"entries": resp})
}

func (h *journalHandler) reverseEntry(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReverseEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "reverse journal entry")
			return
		}
	}

	mirror, err := h.journalService.Reverse(c.Request.Context(), tenantID, c.Param("entry_id"), actor, req.Reason)
	if err != nil {
		respondError(c, err, "reverse journal entry")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Journal entry reversed", slog.String("entry_id", c.Param("entry_id")), slog.String("reversal_entry_id", mirror.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(mirror))
}
