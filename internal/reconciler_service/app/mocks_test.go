package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AradIT/sms-reconciler/internal/reconciler_service/adapters/provider"
	"github.com/AradIT/sms-reconciler/internal/reconciler_service/domain"
)

// --- Mocks shared by the app tests ---

type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) GetMessage(ctx context.Context, sid string) (*domain.RemoteMessage, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteMessage), args.Error(1)
}

func (m *MockProviderClient) GetAccount(ctx context.Context, sid string) (*domain.RemoteAccount, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteAccount), args.Error(1)
}

func (m *MockProviderClient) CreateMessage(ctx context.Context, req provider.CreateMessageRequest) (*domain.RemoteMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteMessage), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) GetBySID(ctx context.Context, sid string) (*domain.Message, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) Upsert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetBySID(ctx context.Context, sid string) (*domain.Account, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) GetOrCreate(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

type MockAPIVersionRepository struct {
	mock.Mock
}

func (m *MockAPIVersionRepository) GetOrCreate(ctx context.Context, date string) (*domain.APIVersion, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIVersion), args.Error(1)
}

type MockProviderErrorRepository struct {
	mock.Mock
}

func (m *MockProviderErrorRepository) GetOrCreate(ctx context.Context, code string, message string) (*domain.ProviderError, error) {
	args := m.Called(ctx, code, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderError), args.Error(1)
}

type MockMessagingServiceRepository struct {
	mock.Mock
}

func (m *MockMessagingServiceRepository) GetOrCreate(ctx context.Context, sid string) (*domain.MessagingService, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessagingService), args.Error(1)
}

type MockPhoneNumberRepository struct {
	mock.Mock
}

func (m *MockPhoneNumberRepository) GetOrCreate(ctx context.Context, number string, unsubscribed bool) (*domain.PhoneNumber, error) {
	args := m.Called(ctx, number, unsubscribed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhoneNumber), args.Error(1)
}

func (m *MockPhoneNumberRepository) SetUnsubscribed(ctx context.Context, number string, unsubscribed bool) error {
	args := m.Called(ctx, number, unsubscribed)
	return args.Error(0)
}

type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) GetActiveByName(ctx context.Context, name string) (*domain.Action, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Action), args.Error(1)
}

func (m *MockActionRepository) Create(ctx context.Context, action *domain.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) GetActiveByAction(ctx context.Context, actionID int64) (*domain.Response, error) {
	args := m.Called(ctx, actionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

func (m *MockResponseRepository) Create(ctx context.Context, response *domain.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) SetActive(ctx context.Context, responseID int64) error {
	args := m.Called(ctx, responseID)
	return args.Error(0)
}

type MockEventDispatcher struct {
	mock.Mock
}

func (m *MockEventDispatcher) SubscriptionChanged(ctx context.Context, event domain.SubscriptionChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventDispatcher) ResponseSent(ctx context.Context, event domain.ResponseSentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
