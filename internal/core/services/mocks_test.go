package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"google.golang.org/api/idtoken"
)

// MockPushTransport is a mock type for the PushTransport interface
type MockPushTransport struct {
	mock.Mock
}

func (m *MockPushTransport) Send(ctx context.Context, msg domain.PushMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.WalletEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAccountCache is a mock type for the AccountCache interface
type MockAccountCache struct {
	mock.Mock
}

func (m *MockAccountCache) Get(ctx context.Context, email string) (*domain.Account, bool) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Account), args.Bool(1)
}

func (m *MockAccountCache) Set(ctx context.Context, email string, account *domain.Account) {
	m.Called(ctx, email, account)
}

func (m *MockAccountCache) Delete(ctx context.Context, emails ...string) {
	m.Called(ctx, emails)
}

// MockNotificationDispatcher records post-commit side effects synchronously.
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) NotifyTransferReceived(ctx context.Context, receiver domain.Account, amount decimal.Decimal, senderAlias string) {
	m.Called(ctx, receiver, amount, senderAlias)
}

func (m *MockNotificationDispatcher) PublishEvent(ctx context.Context, event domain.WalletEvent) {
	m.Called(ctx, event)
}

func (m *MockNotificationDispatcher) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAccountService is a mock type for the AccountSvcFacade interface
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

// MockTokenService is a mock type for the TokenSvcFacade interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockGoogleIDTokenService is a mock type for the GoogleIDTokenSvc interface
type MockGoogleIDTokenService struct {
	mock.Mock
}

func (m *MockGoogleIDTokenService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}
