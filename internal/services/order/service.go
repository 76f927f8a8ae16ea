package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"karinderya/internal/logger"
	"karinderya/internal/models"
	"karinderya/internal/parser"
)

// repository is the persistence surface the service needs.
type repository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrderByID(ctx context.Context, id int) (*models.Order, error)
	ListOrders(ctx context.Context, f Filter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, from, to models.OrderStatus) (time.Time, error)
}

// publisher sends customer notifications to the fanout exchange.
type publisher interface {
	PublishNotification(ctx context.Context, notification interface{}) error
}

// Service implements the order workflows: turning chat messages into
// persisted orders and moving orders through the status lifecycle.
type Service struct {
	repo      repository
	publisher publisher
	parser    *parser.Parser
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(repo repository, pub publisher, p *parser.Parser, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: pub,
		parser:    p,
		logger:    log,
	}
}

// CreateFromMessage parses a free-form chat message and, when the parse is
// submittable, persists the order and queues a confirmation for the
// customer. When the parse has problems, a problem reply is queued instead
// and no order is created. The ParsedOrder is always returned so callers
// can inspect what was understood.
func (s *Service) CreateFromMessage(ctx context.Context, msg *models.IncomingMessage, requestID string) (*models.Order, models.ParsedOrder, error) {
	parsed := s.parser.ParseOrderText(ctx, msg.Text)

	if !parsed.IsSubmittable() {
		s.logger.Info("order_parse_rejected", "Message did not parse into a submittable order", requestID, map[string]interface{}{
			"sender_id": msg.SenderID,
			"errors":    parsed.Errors,
		})
		s.queueReply(ctx, requestID, &models.CustomerNotification{
			Type:        models.NotificationOrderConfirmation,
			RecipientID: msg.SenderID,
			Text:        problemText(parsed),
			Timestamp:   time.Now().UTC(),
		})
		return nil, parsed, nil
	}

	lowerText := strings.ToLower(msg.Text)
	items := make([]models.OrderItem, 0, len(parsed.Items))
	for _, pi := range parsed.Items {
		items = append(items, models.OrderItem{
			ID:       pi.Item.ID,
			Name:     pi.Item.DisplayName(itemLanguage(lowerText, pi.Item)),
			Price:    pi.Item.Price,
			Quantity: pi.Quantity,
		})
	}

	order := &models.Order{
		CustomerID:          msg.SenderID,
		CustomerName:        parsed.CustomerName,
		CustomerPhone:       parsed.CustomerPhone,
		Status:              models.StatusNew,
		Type:                parsed.OrderType,
		TotalPrice:          models.TotalOf(items),
		Items:               items,
		DeliveryAddress:     parsed.DeliveryAddress,
		SpecialInstructions: parsed.SpecialInstructions,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, parsed, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order_created", "Order created from chat message", requestID, map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.Items),
	})

	s.queueReply(ctx, requestID, models.NewConfirmationNotification(order, confirmationText(order)))

	return order, parsed, nil
}

// UpdateStatus moves an order through the lifecycle. The notification is
// published after the write succeeds; a publish failure is logged but the
// transition stands.
func (s *Service) UpdateStatus(ctx context.Context, id int, newStatus models.OrderStatus, requestID string) (*models.Order, error) {
	target, err := NormalizeStatus(newStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus, err := NormalizeStatus(order.Status)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(oldStatus, target); err != nil {
		return nil, err
	}

	// The conditional write must match the literal stored status: a legacy
	// "pending" row still holds "pending", not the normalized "new".
	updatedAt, err := s.repo.UpdateOrderStatus(ctx, id, order.Status, target)
	if err != nil {
		return nil, err
	}
	order.Status = target
	order.UpdatedAt = updatedAt

	s.logger.Info("order_status_updated", "Order status updated", requestID, map[string]interface{}{
		"order_id":   order.ID,
		"old_status": string(oldStatus),
		"new_status": string(target),
	})

	s.queueReply(ctx, requestID, models.NewStatusNotification(order, oldStatus))

	return order, nil
}

// GetOrderByID returns a single order.
func (s *Service) GetOrderByID(ctx context.Context, id int) (*models.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// GetOrders returns orders matching the filter.
func (s *Service) GetOrders(ctx context.Context, f Filter) ([]models.Order, error) {
	return s.repo.ListOrders(ctx, f)
}

// queueReply publishes a customer notification, logging failures instead of
// propagating them: a broker hiccup must not undo order state.
func (s *Service) queueReply(ctx context.Context, requestID string, n *models.CustomerNotification) {
	if err := s.publisher.PublishNotification(ctx, n); err != nil {
		s.logger.Error("notification_queue_failed", "Failed to queue customer notification", requestID, err, map[string]interface{}{
			"recipient_id": n.RecipientID,
			"order_id":     n.OrderID,
			"type":         n.Type,
		})
	}
}

// itemLanguage picks the display language for one line item: Tagalog when
// that is the name the customer typed, English otherwise. The confirmation
// then echoes the order in the customer's own words.
func itemLanguage(lowerText string, item models.MenuItem) string {
	if item.NameTagalog != "" && strings.Contains(lowerText, strings.ToLower(item.NameTagalog)) {
		return "tagalog"
	}
	return "english"
}

// confirmationText builds the order-received reply sent back to the chat.
func confirmationText(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Salamat! Order #%d received.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s - P%.2f\n", item.Quantity, item.Name, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: P%.2f\n", order.TotalPrice)
	if order.Type == models.Pickup {
		b.WriteString("For pickup. We'll message you when it's ready.")
	} else {
		fmt.Fprintf(&b, "Delivery to: %s\nWe'll message you when it's on the way.", order.DeliveryAddress)
	}
	return b.String()
}

// problemText builds the reply for a message that did not parse into a
// submittable order.
func problemText(parsed models.ParsedOrder) string {
	var b strings.Builder
	b.WriteString("Sorry, I couldn't place that order:\n")
	for _, e := range parsed.Errors {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	b.WriteString("\nPlease try again, for example: \"2 burgers and 1 coke, deliver to 123 Main St\"")
	return b.String()
}
