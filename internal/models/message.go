package models

import "time"

// Notification kinds carried on the notifications fanout exchange.
const (
	NotificationOrderConfirmation = "order_confirmation"
	NotificationStatusUpdate      = "status_update"
)

// CustomerNotification is the payload published for the notification worker.
// Confirmation messages carry ready-made Text; status updates carry the
// transition and are formatted by the worker.
type CustomerNotification struct {
	Type        string    `json:"type"`
	RecipientID string    `json:"recipient_id"`
	OrderID     int       `json:"order_id"`
	Text        string    `json:"text,omitempty"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewStatusNotification builds a status-update notification payload.
func NewStatusNotification(order *Order, oldStatus OrderStatus) *CustomerNotification {
	return &CustomerNotification{
		Type:        NotificationStatusUpdate,
		RecipientID: order.CustomerID,
		OrderID:     order.ID,
		OldStatus:   string(oldStatus),
		NewStatus:   string(order.Status),
		Timestamp:   time.Now().UTC(),
	}
}

// NewConfirmationNotification builds an order-confirmation notification.
func NewConfirmationNotification(order *Order, text string) *CustomerNotification {
	return &CustomerNotification{
		Type:        NotificationOrderConfirmation,
		RecipientID: order.CustomerID,
		OrderID:     order.ID,
		Text:        text,
		Timestamp:   time.Now().UTC(),
	}
}

// IncomingMessage is a normalized messaging event from the webhook.
type IncomingMessage struct {
	Type      string `json:"type"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text,omitempty"`
	Payload   string `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
