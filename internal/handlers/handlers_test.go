package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/handlers"
	"github.com/SscSPs/pocket_wallet/internal/middleware"
	"github.com/SscSPs/pocket_wallet/internal/platform/config"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListMovements(ctx context.Context, email string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	args := m.Called(ctx, email, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListMovementsResponse), args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAlias(ctx context.Context, email string, newAlias string) (string, error) {
	args := m.Called(ctx, email, newAlias)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) SaveNotificationChannel(ctx context.Context, email string, token string) (string, error) {
	args := m.Called(ctx, email, token)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email string, rawCredential string) (*domain.Account, error) {
	args := m.Called(ctx, email, rawCredential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.TransferReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferReceipt), args.Error(1)
}

func (m *MockTransferService) Spend(ctx context.Context, req dto.SpendRequest) (*domain.SpendReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendReceipt), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Test Suite Setup ---

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "pocket_wallet"
)

type HandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	cfg             *config.Config
	accountService  *MockAccountService
	transferService *MockTransferService
	authService     *MockAuthService
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:     testSecret,
		JWTIssuer:     testIssuer,
		AuthRateLimit: "1000-M",
		IsProduction:  true,
	}
	suite.build()
}

func (suite *HandlerTestSuite) build() {
	gin.SetMode(gin.TestMode)
	suite.accountService = new(MockAccountService)
	suite.transferService = new(MockTransferService)
	suite.authService = new(MockAuthService)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Account:  suite.accountService,
		Transfer: suite.transferService,
		Auth:     suite.authService,
	}, nil)
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func sampleAccount() *domain.Account {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:      "acc-1",
		DisplayName:    "Ana",
		Alias:          "ana",
		Email:          "ana@example.com",
		CredentialHash: "$2a$10$shouldnotleak",
		RoutingCode:    "1234567890123456789012",
		Balance:        decimal.NewFromInt(4500),
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestRegister_Created() {
	req := dto.RegisterRequest{Name: "Ana", Alias: "ana", Email: "ana@example.com", Credential: "s3cret!"}
	suite.authService.On("Register", mock.Anything, req).Return(sampleAccount(), nil).Once()

	w := suite.do(http.MethodPost, "/accounts/register", req, "")

	suite.Equal(http.StatusCreated, w.Code)
	suite.NotContains(w.Body.String(), "shouldnotleak")
	suite.NotContains(w.Body.String(), "credential")
	var body dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("acc-1", body.AccountID)
	suite.Equal("1234567890123456789012", body.RoutingCode)
	suite.authService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRegister_BindingRejectsBeforeService() {
	testCases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"name": "Ana", "alias": "ana", "credential": "s3cret!"}},
		{"malformed email", map[string]string{"name": "Ana", "alias": "ana", "email": "nope", "credential": "s3cret!"}},
		{"short credential", map[string]string{"name": "Ana", "alias": "ana", "email": "ana@example.com", "credential": "123"}},
		{"invalid alias", map[string]string{"name": "Ana", "alias": "a b", "email": "ana@example.com", "credential": "s3cret!"}},
		{"credential over 72 characters", map[string]string{"name": "Ana", "alias": "ana", "email": "ana@example.com", "credential": strings.Repeat("x", 80)}},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/accounts/register", tc.body, "")
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.authService.AssertNotCalled(suite.T(), "Register", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRegister_AcceptsPaddedEmail() {
	req := dto.RegisterRequest{Name: "Bea", Alias: "bea", Email: "  B@b.com ", Credential: "s3cret!"}
	suite.authService.On("Register", mock.Anything, req).Return(sampleAccount(), nil).Once()

	w := suite.do(http.MethodPost, "/accounts/register", req, "")
	suite.Equal(http.StatusCreated, w.Code)
	suite.authService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRegister_DuplicateIsBadRequest() {
	suite.authService.On("Register", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %w: email already registered", apperrors.ErrValidation, apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/accounts/register",
		dto.RegisterRequest{Name: "Ana", Alias: "ana", Email: "ana@example.com", Credential: "s3cret!"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "email already registered")
}

func (suite *HandlerTestSuite) TestLogin_ErrorMapping() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown account", fmt.Errorf("%w: account not found", apperrors.ErrNotFound), http.StatusNotFound},
		{"bad credential", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized), http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.authService.On("Login", mock.Anything, dto.LoginRequest{Email: "ana@example.com", Credential: tc.name}).Return(nil, tc.err).Once()
			w := suite.do(http.MethodPost, "/accounts/login", dto.LoginRequest{Email: "ana@example.com", Credential: tc.name}, "")
			suite.Equal(tc.wantStatus, w.Code)
		})
	}

	w := suite.do(http.MethodPost, "/accounts/login", map[string]string{"email": "ana@example.com"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_ReturnsToken() {
	resp := &dto.LoginResponse{AccountResponse: dto.ToAccountResponse(sampleAccount()), AccessToken: "signed", ExpiresAt: time.Now().Add(time.Hour)}
	suite.authService.On("Login", mock.Anything, dto.LoginRequest{Email: "ana@example.com", Credential: "s3cret!"}).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, "/accounts/login", dto.LoginRequest{Email: "ana@example.com", Credential: "s3cret!"}, "")
	suite.Equal(http.StatusOK, w.Code)

	var body dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("signed", body.AccessToken)
	suite.Equal("ana", body.Alias)
}

func (suite *HandlerTestSuite) TestTransfer_ErrorMapping() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"insufficient funds", fmt.Errorf("%w: balance 10.00 cannot cover 20.00", apperrors.ErrInsufficientFunds), http.StatusBadRequest, "insufficient funds"},
		{"receiver missing", fmt.Errorf("%w: receiver account not found", apperrors.ErrNotFound), http.StatusNotFound, "receiver account not found"},
		{"contention", apperrors.ErrConflict, http.StatusConflict, "concurrent update conflict"},
		{"database down", errors.New("dial tcp 10.0.0.1:5432: connection refused"), http.StatusInternalServerError, "Failed to transfer"},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.transferService.On("Transfer", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			w := suite.do(http.MethodPost, "/accounts/transfer", map[string]any{
				"fromEmail": "ana@example.com", "toAlias": "bob", "amount": "20",
			}, "")
			suite.Equal(tc.wantStatus, w.Code)
			suite.Contains(suite.errorBody(w), tc.wantBody)
			suite.NotContains(w.Body.String(), "10.0.0.1")
		})
	}
}

func (suite *HandlerTestSuite) TestTransfer_Success() {
	receipt := &domain.TransferReceipt{
		TransferID: "tr-1",
		FromAlias:  "ana",
		ToAlias:    "bob",
		Amount:     decimal.NewFromInt(1000),
		Balance:    decimal.NewFromInt(3500),
		State:      domain.TransferCredited,
	}
	suite.transferService.On("Transfer", mock.Anything, mock.MatchedBy(func(r dto.TransferRequest) bool {
		return r.FromEmail == "ana@example.com" && r.ToAlias == "bob" && r.Amount.Equal(decimal.NewFromInt(1000))
	})).Return(receipt, nil).Once()

	w := suite.do(http.MethodPost, "/accounts/transfer", map[string]any{
		"fromEmail": "ana@example.com", "toAlias": "bob", "amount": 1000,
	}, "")
	suite.Equal(http.StatusOK, w.Code)

	var body dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(decimal.NewFromInt(3500).Equal(body.Balance))
	suite.transferService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSpend() {
	suite.transferService.On("Spend", mock.Anything, mock.Anything).
		Return(&domain.SpendReceipt{MovementID: "m-1", Amount: decimal.NewFromInt(100), Balance: decimal.Zero, Description: "Spend"}, nil).Once()

	w := suite.do(http.MethodPost, "/accounts/spend", map[string]any{"email": "ana@example.com", "amount": "100"}, "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/accounts/spend", map[string]any{"amount": "100"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccount() {
	suite.accountService.On("GetAccountByEmail", mock.Anything, "ana@example.com").Return(sampleAccount(), nil).Once()
	suite.accountService.On("GetAccountByEmail", mock.Anything, "nobody@example.com").
		Return(nil, fmt.Errorf("%w: account not found", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/accounts/ana@example.com", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "shouldnotleak")

	w = suite.do(http.MethodGet, "/accounts/nobody@example.com", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListMovements() {
	expected := &dto.ListMovementsResponse{Movements: []dto.MovementResponse{{MovementID: "m-2"}}, NextToken: "tok"}
	suite.accountService.On("ListMovements", mock.Anything, "ana@example.com", dto.ListMovementsParams{Limit: 5, NextToken: "abc"}).
		Return(expected, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/ana@example.com/movements?limit=5&nextToken=abc", nil, "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/accounts/ana@example.com/movements?limit=500", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accountService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateAlias() {
	suite.accountService.On("UpdateAlias", mock.Anything, "ana@example.com", "ana.p").Return("ana.p", nil).Once()
	suite.accountService.On("UpdateAlias", mock.Anything, "ana@example.com", "bob").
		Return("", fmt.Errorf("%w: %w: alias already taken", apperrors.ErrValidation, apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPatch, "/accounts/alias", dto.UpdateAliasRequest{Email: "ana@example.com", NewAlias: "ana.p"}, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"alias":"ana.p"}`, w.Body.String())

	w = suite.do(http.MethodPatch, "/accounts/alias", dto.UpdateAliasRequest{Email: "ana@example.com", NewAlias: "bob"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSaveNotificationChannel() {
	suite.accountService.On("SaveNotificationChannel", mock.Anything, "ana@example.com", "ExponentPushToken[x]").Return("ExponentPushToken[x]", nil).Once()

	w := suite.do(http.MethodPost, "/accounts/notification-channel", dto.NotificationChannelRequest{Email: "ana@example.com", Token: "ExponentPushToken[x]"}, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"token":"ExponentPushToken[x]"}`, w.Body.String())

	w = suite.do(http.MethodPost, "/accounts/notification-channel", map[string]string{"email": "ana@example.com"}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRequireAuth() {
	suite.cfg.RequireAuth = true
	suite.build()

	token, _, err := utils.GenerateJWT("ana@example.com", "acc-1", testSecret, time.Hour, testIssuer, time.Now())
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/accounts/ana@example.com", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/accounts/bob@example.com", nil, token)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/accounts/transfer", map[string]any{"fromEmail": "bob@example.com", "toAlias": "ana", "amount": "1"}, token)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.transferService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)

	suite.accountService.On("GetAccountByEmail", mock.Anything, "ANA@example.com").Return(sampleAccount(), nil).Once()
	w = suite.do(http.MethodGet, "/accounts/ANA@example.com", nil, token)
	suite.Equal(http.StatusOK, w.Code)

	// Credential routes stay public.
	suite.authService.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUnauthorized).Once()
	w = suite.do(http.MethodPost, "/accounts/login", dto.LoginRequest{Email: "ana@example.com", Credential: "x"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestAuthRoutesAreRateLimited() {
	suite.cfg.AuthRateLimit = "2-M"
	suite.build()
	suite.authService.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUnauthorized)

	for i := 0; i < 2; i++ {
		w := suite.do(http.MethodPost, "/accounts/login", dto.LoginRequest{Email: "ana@example.com", Credential: "x"}, "")
		suite.Equal(http.StatusUnauthorized, w.Code)
	}
	w := suite.do(http.MethodPost, "/accounts/login", dto.LoginRequest{Email: "ana@example.com", Credential: "x"}, "")
	suite.Equal(http.StatusTooManyRequests, w.Code)
}

// --- Run Test Suite ---

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
