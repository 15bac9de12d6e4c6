package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and login.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public credential routes behind the rate limiter.
func registerAuthRoutes(accounts *gin.RouterGroup, authService portssvc.AuthSvcFacade, limit gin.HandlerFunc) {
	h := newAuthHandler(authService)

	accounts.POST("/register", limit, h.register)
	accounts.POST("/login", limit, h.login)
	accounts.POST("/login/google", limit, h.loginWithGoogle)
}

// register godoc
// @Summary Register a new account
// @Description Creates a wallet account with the starting balance and a fresh routing code.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input or email/alias already taken"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to register account")
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// login godoc
// @Summary Log in
// @Description Verifies the credential and returns the account view with an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Missing fields"
// @Failure 401 {object} ErrorResponse "Credential mismatch"
// @Failure 404 {object} ErrorResponse "No such account"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to log in")
		return
	}

	logger.Info("Account logged in", slog.String("account_id", resp.AccountID))
	c.JSON(http.StatusOK, resp)
}

// loginWithGoogle godoc
// @Summary Log in with Google
// @Description Validates a Google ID token and logs in the account registered with its email.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid ID token"
// @Failure 404 {object} ErrorResponse "No account for the token's email"
// @Failure 500 {object} ErrorResponse
// @Router /accounts/login/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.authService.LoginWithGoogle(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to log in with Google")
		return
	}

	logger.Info("Account logged in with Google", slog.String("account_id", resp.AccountID))
	c.JSON(http.StatusOK, resp)
}
