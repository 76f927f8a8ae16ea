package notification

import (
	"context"
	"fmt"

	"karinderya/internal/logger"
	"karinderya/internal/messaging"
	"karinderya/internal/models"
)

// sender delivers a text to a chat recipient.
type sender interface {
	SendText(ctx context.Context, recipientID, text string) error
}

// Worker consumes customer notifications from the queue and delivers them
// through the messenger client.
type Worker struct {
	consumer *messaging.Consumer
	sender   sender
	logger   *logger.Logger
}

// NewWorker creates a new notification worker
func NewWorker(consumer *messaging.Consumer, s sender, log *logger.Logger) *Worker {
	return &Worker{
		consumer: consumer,
		sender:   s,
		logger:   log,
	}
}

// Run consumes notifications until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.consumer.StartConsuming(ctx, w.handle)
}

// handle processes one queued notification. Delivery failures are logged
// and swallowed: requeueing a message the platform rejects would just
// hammer the Send API.
func (w *Worker) handle(ctx context.Context, body []byte) error {
	var n models.CustomerNotification
	if err := messaging.ParseMessage(body, &n); err != nil {
		w.logger.Error("notification_decode_failed", "Failed to decode notification", "", err, nil)
		return nil
	}

	text := w.messageText(&n)
	if text == "" || n.RecipientID == "" {
		w.logger.Warn("notification_skipped", "Notification has no deliverable content", "", map[string]interface{}{
			"type":     n.Type,
			"order_id": n.OrderID,
		})
		return nil
	}

	if err := w.sender.SendText(ctx, n.RecipientID, text); err != nil {
		w.logger.Error("notification_delivery_failed", "Failed to deliver notification", "", err, map[string]interface{}{
			"recipient_id": n.RecipientID,
			"order_id":     n.OrderID,
			"type":         n.Type,
		})
		return nil
	}

	w.logger.Info("notification_delivered", "Notification delivered", "", map[string]interface{}{
		"recipient_id": n.RecipientID,
		"order_id":     n.OrderID,
		"type":         n.Type,
	})
	return nil
}

// messageText picks the text to send: confirmations come pre-formatted,
// status updates are formatted here.
func (w *Worker) messageText(n *models.CustomerNotification) string {
	if n.Type == models.NotificationOrderConfirmation {
		return n.Text
	}
	return StatusText(n.OrderID, models.OrderStatus(n.NewStatus))
}

// StatusText is the customer-facing wording for each status change.
func StatusText(orderID int, status models.OrderStatus) string {
	switch status {
	case models.StatusAccepted:
		return fmt.Sprintf("Good news! Order #%d has been accepted and is now being prepared. Salamat po!", orderID)
	case models.StatusFinished:
		return fmt.Sprintf("Order #%d is ready! It will be with you shortly.", orderID)
	case models.StatusCompleted:
		return fmt.Sprintf("Order #%d is complete. Enjoy your meal! Salamat po!", orderID)
	case models.StatusVoided:
		return fmt.Sprintf("Sorry, order #%d has been cancelled. Message us if you have any questions.", orderID)
	default:
		return fmt.Sprintf("Order #%d status: %s", orderID, status)
	}
}
