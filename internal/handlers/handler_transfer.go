package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler exposes the balance-mutating operations.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

func registerTransferRoutes(accounts *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	accounts.POST("/transfer", h.transfer)
	accounts.POST("/spend", h.spend)
}

// transfer godoc
// @Summary Transfer money to another account
// @Description Debits the sender and credits the account holding toAlias in one unit of work.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Sender or receiver not found"
// @Failure 409 {object} ErrorResponse "Concurrent update, retry"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/transfer [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	if !middleware.RequireSubject(c, req.FromEmail) {
		return
	}

	receipt, err := h.transferService.Transfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(receipt))
}

// spend godoc
// @Summary Record a spend
// @Tags transfers
// @Accept json
// @Produce json
// @Param spend body dto.SpendRequest true "Spend details"
// @Success 200 {object} dto.SpendResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/spend [post]
func (h *transferHandler) spend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	if !middleware.RequireSubject(c, req.Email) {
		return
	}

	receipt, err := h.transferService.Spend(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record spend")
		return
	}
	c.JSON(http.StatusOK, dto.ToSpendResponse(receipt))
}
