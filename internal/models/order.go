package models

import "time"

// OrderType represents how the customer receives the order
type OrderType string

const (
	Delivery OrderType = "delivery"
	Pickup   OrderType = "pickup"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusAccepted  OrderStatus = "accepted"
	StatusFinished  OrderStatus = "finished"
	StatusCompleted OrderStatus = "completed"
	StatusVoided    OrderStatus = "voided"

	// StatusPending is a legacy alias for StatusNew kept for older clients.
	StatusPending OrderStatus = "pending"
)

// PaymentMethod represents how the customer intends to pay
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentGCash   PaymentMethod = "gcash"
	PaymentPayMaya PaymentMethod = "paymaya"
)

// OrderItem represents a line item on a persisted order
type OrderItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order represents a customer order. It is created once with StatusNew and
// mutated only through status transitions afterwards.
type Order struct {
	ID                  int         `json:"id"`
	CustomerID          string      `json:"customer_id"`
	CustomerName        string      `json:"customer_name,omitempty"`
	CustomerPhone       string      `json:"customer_phone,omitempty"`
	Status              OrderStatus `json:"status"`
	Type                OrderType   `json:"order_type"`
	TotalPrice          float64     `json:"total_price"`
	Items               []OrderItem `json:"items"`
	DeliveryAddress     string      `json:"delivery_address,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// TotalOf sums line prices times quantities.
func TotalOf(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
