package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// RegisterAccountRoutes registers the chart of accounts routes on a tenant-scoped group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.POST("/seed", h.seedChart)
		accounts.GET("/:account_number", h.getAccount)
		accounts.POST("/:account_number/deactivate", h.deactivateAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "create account")
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req.ToChartAccount(), actor)
	if err != nil {
		respondError(c, err, "create account")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, includeInactive)
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	tenantID, _, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.LookupAccount(c.Request.Context(), tenantID, c.Param("account_number"))
	if err != nil {
		respondError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) deactivateAccount(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.DeactivateAccount(c.Request.Context(), tenantID, c.Param("account_number"), actor)
	if err != nil {
		respondError(c, err, "deactivate account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) seedChart(c *gin.Context) {
	tenantID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.SeedChartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "seed chart")
			return
		}
	}

	created, err := h.accountService.SeedChart(c.Request.Context(), tenantID, req.ToChart(), actor)
	if err != nil {
		respondError(c, err, "seed chart")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Chart seeded", slog.Int("created", len(created)))
	c.JSON(http.StatusCreated, dto.ToListAccountsResponse(created))
}
