package service

import (
	"context"
	"testing"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreService_SearchProducts(t *testing.T) {
	api := new(MockCatalogAPI)
	svc := NewStoreService(api)
	ctx := context.Background()

	api.On("SearchProducts", ctx, "laptop").Return([]domain.Product{{ID: "p1"}}, nil).Once()

	products, err := svc.SearchProducts(ctx, "  laptop ")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	_, err = svc.SearchProducts(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	api.AssertExpectations(t)
}

func TestStoreService_CreateOrderValidation(t *testing.T) {
	api := new(MockCatalogAPI)
	svc := NewStoreService(api)
	ctx := context.Background()

	tests := []struct {
		name  string
		input domain.OrderCreate
	}{
		{"no items", domain.OrderCreate{}},
		{"missing product", domain.OrderCreate{Items: []domain.OrderItem{{Quantity: 1}}}},
		{"zero quantity", domain.OrderCreate{Items: []domain.OrderItem{{ProductID: "p1", Quantity: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tt.input)
			assert.Error(t, err)
		})
	}
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)

	valid := domain.OrderCreate{Items: []domain.OrderItem{{ProductID: "p1", Quantity: 2}}}
	api.On("CreateOrder", ctx, valid).Return(&domain.Order{ID: "o1", Status: domain.OrderStatusPending}, nil).Once()

	order, err := svc.CreateOrder(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
}

func TestStoreService_Pay(t *testing.T) {
	api := new(MockCatalogAPI)
	svc := NewStoreService(api)
	ctx := context.Background()

	_, err := svc.Pay(ctx, domain.PaymentIntentCreate{})
	assert.Error(t, err)

	input := domain.PaymentIntentCreate{OrderID: "o1"}
	api.On("CreatePaymentIntent", ctx, input).Return(&domain.PaymentIntent{ClientSecret: "cs_1"}, nil).Once()

	intent, err := svc.Pay(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "cs_1", intent.ClientSecret)
}

func TestStoreService_Order(t *testing.T) {
	api := new(MockCatalogAPI)
	svc := NewStoreService(api)
	ctx := context.Background()

	_, err := svc.Order(ctx, " ")
	assert.Error(t, err)

	api.On("GetOrder", ctx, "o1").Return(&domain.Order{ID: "o1"}, nil).Once()
	api.On("ListOrders", ctx).Return([]domain.Order{{ID: "o1"}}, nil).Once()

	order, err := svc.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
