package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/security"
)

// CatalogAPI is the part of the storefront API behind the shop screens
type CatalogAPI interface {
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateOrder(ctx context.Context, input domain.OrderCreate) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	CreatePaymentIntent(ctx context.Context, input domain.PaymentIntentCreate) (*domain.PaymentIntent, error)
}

// StoreService fronts product, order and payment calls
type StoreService struct {
	api CatalogAPI
}

// NewStoreService creates a new store service
func NewStoreService(api CatalogAPI) *StoreService {
	return &StoreService{api: api}
}

// SearchProducts runs a plain keyword search
func (s *StoreService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.api.SearchProducts(ctx, query)
}

// Product returns a single product
func (s *StoreService) Product(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("product id is required")
	}
	return s.api.GetProduct(ctx, id)
}

// CreateOrder places an order after checking the items
func (s *StoreService) CreateOrder(ctx context.Context, input domain.OrderCreate) (*domain.Order, error) {
	if err := security.ValidateInput(input); err != nil {
		return nil, err
	}
	return s.api.CreateOrder(ctx, input)
}

// Orders lists the signed-in user's orders
func (s *StoreService) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.api.ListOrders(ctx)
}

// Order returns one order
func (s *StoreService) Order(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("order id is required")
	}
	return s.api.GetOrder(ctx, id)
}

// Pay creates a payment intent for an order
func (s *StoreService) Pay(ctx context.Context, input domain.PaymentIntentCreate) (*domain.PaymentIntent, error) {
	if err := security.ValidateInput(input); err != nil {
		return nil, err
	}
	return s.api.CreatePaymentIntent(ctx, input)
}
