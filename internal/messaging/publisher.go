package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"karinderya/internal/logger"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishNotification publishes a customer notification to the fanout
// exchange. Notifications are persistent so a worker restart does not lose
// queued customer messages.
func (p *Publisher) PublishNotification(ctx context.Context, notification interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		NotificationsExchange,
		"",    // routing key ignored for fanout
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("notification_publish_failed",
			"Failed to publish notification",
			"", err, map[string]interface{}{
				"exchange": NotificationsExchange,
			})
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Debug("notification_published",
		"Published notification",
		"", map[string]interface{}{
			"exchange":     NotificationsExchange,
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
