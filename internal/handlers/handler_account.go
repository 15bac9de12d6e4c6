package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(accounts *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts.PATCH("/alias", h.updateAlias)
	accounts.POST("/notification-channel", h.saveNotificationChannel)
	accounts.GET("/:email", h.getAccount)
	accounts.GET("/:email/movements", h.listMovements)
}

// getAccount godoc
// @Summary Get an account by email
// @Description Returns the public account view including its movements.
// @Tags accounts
// @Produce json
// @Param email path string true "Account email"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Token belongs to another account"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{email} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	email := c.Param("email")
	if !middleware.RequireSubject(c, email) {
		return
	}

	account, err := h.accountService.GetAccountByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listMovements godoc
// @Summary List movements of an account
// @Description Returns movements newest first. Pass nextToken from the previous page to continue.
// @Tags accounts
// @Produce json
// @Param email path string true "Account email"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{email}/movements [get]
func (h *accountHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	email := c.Param("email")
	if !middleware.RequireSubject(c, email) {
		return
	}

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.accountService.ListMovements(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateAlias godoc
// @Summary Change the alias of an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param alias body dto.UpdateAliasRequest true "Email and new alias"
// @Success 200 {object} dto.UpdateAliasResponse
// @Failure 400 {object} ErrorResponse "Missing fields or alias already taken"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/alias [patch]
func (h *accountHandler) updateAlias(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	if !middleware.RequireSubject(c, req.Email) {
		return
	}

	alias, err := h.accountService.UpdateAlias(c.Request.Context(), req.Email, req.NewAlias)
	if err != nil {
		respondError(c, logger, err, "Failed to update alias")
		return
	}
	c.JSON(http.StatusOK, dto.UpdateAliasResponse{Alias: alias})
}

// saveNotificationChannel godoc
// @Summary Register a push token
// @Description Overwrites the device channel used for transfer notifications.
// @Tags accounts
// @Accept json
// @Produce json
// @Param channel body dto.NotificationChannelRequest true "Email and push token"
// @Success 200 {object} dto.NotificationChannelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/notification-channel [post]
func (h *accountHandler) saveNotificationChannel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.NotificationChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	if !middleware.RequireSubject(c, req.Email) {
		return
	}

	token, err := h.accountService.SaveNotificationChannel(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		respondError(c, logger, err, "Failed to save notification channel")
		return
	}
	c.JSON(http.StatusOK, dto.NotificationChannelResponse{Token: token})
}
