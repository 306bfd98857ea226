package apiclient

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Rrens/storefront-assistant/internal/domain"
)

// SearchProducts runs a plain catalog search
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/products/search", q, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Product](raw, "products")
}

// GetProduct returns a single product
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/products/"+segment(id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeObject[domain.Product](raw, "product")
}

// CreateOrder places an order
func (c *Client) CreateOrder(ctx context.Context, input domain.OrderCreate) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/orders", input, &raw); err != nil {
		return nil, err
	}
	return decodeObject[domain.Order](raw, "order")
}

// ListOrders returns the signed-in user's order history
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/orders", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Order](raw, "orders")
}

// GetOrder returns a single order
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/orders/"+segment(id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeObject[domain.Order](raw, "order")
}

// CreatePaymentIntent asks the API to create a card payment for an order
func (c *Client) CreatePaymentIntent(ctx context.Context, input domain.PaymentIntentCreate) (*domain.PaymentIntent, error) {
	var out domain.PaymentIntent
	if err := c.post(ctx, "/payments/create-intent", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
