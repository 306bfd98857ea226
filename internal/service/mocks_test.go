package service

import (
	"context"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockChatBackend mocks the ChatBackend interface
type MockChatBackend struct {
	mock.Mock
}

func (m *MockChatBackend) StartSession(ctx context.Context, category string) (*domain.StartSessionResponse, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StartSessionResponse), args.Error(1)
}

func (m *MockChatBackend) SendMessage(ctx context.Context, sessionID, message string) (*domain.ChatMessageResponse, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessageResponse), args.Error(1)
}

func (m *MockChatBackend) GetConversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockChatBackend) ListSearchSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SessionSummary), args.Error(1)
}

func (m *MockChatBackend) LinkSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockChatBackend) GetSessionProducts(ctx context.Context, sessionID string) ([]domain.Product, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

// MockAuthAPI mocks the AuthAPI interface
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Register(ctx context.Context, input domain.UserCreate) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthAPI) Login(ctx context.Context, input domain.UserLogin) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthAPI) GoogleLoginURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAuthAPI) GetProfile(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthAPI) UpdateProfile(ctx context.Context, input domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCatalogAPI mocks the CatalogAPI interface
type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) CreateOrder(ctx context.Context, input domain.OrderCreate) (*domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCatalogAPI) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockCatalogAPI) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCatalogAPI) CreatePaymentIntent(ctx context.Context, input domain.PaymentIntentCreate) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
