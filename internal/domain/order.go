package domain

import "time"

// OrderStatus represents the lifecycle state reported by the API
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order
type OrderItem struct {
	ProductID string  `json:"product_id" yaml:"product_id" validate:"required"`
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
	Quantity  int     `json:"quantity" yaml:"quantity" validate:"required,min=1,max=99"`
	Price     float64 `json:"price,omitempty" yaml:"price,omitempty"`
}

// Order represents a placed order
type Order struct {
	ID              string      `json:"id" yaml:"id"`
	Items           []OrderItem `json:"items" yaml:"items"`
	Total           float64     `json:"total" yaml:"total"`
	Status          OrderStatus `json:"status" yaml:"status"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty" yaml:"payment_intent_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at" yaml:"created_at"`
}

// OrderCreate represents checkout form data
type OrderCreate struct {
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string      `json:"shipping_address,omitempty" validate:"omitempty,max=512"`
}

// PaymentIntentCreate is the body of POST /payments/create-intent
type PaymentIntentCreate struct {
	OrderID  string  `json:"order_id" validate:"required"`
	Amount   float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Currency string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// PaymentIntent is the client-side handle of a payment created by the API
type PaymentIntent struct {
	ClientSecret    string  `json:"client_secret" yaml:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id" yaml:"payment_intent_id"`
	Amount          float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Currency        string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}
