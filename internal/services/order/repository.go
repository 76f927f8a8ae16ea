package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"karinderya/internal/database"
	"karinderya/internal/models"
)

var (
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatusConflict is returned when a status update lost the race: the
	// order moved to another status between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Filter narrows a ListOrders query. Zero values mean "no filter".
type Filter struct {
	Status     models.OrderStatus
	CustomerID string
	From       time.Time
	To         time.Time
	Limit      int
}

// Repository persists orders in Postgres
type Repository struct {
	db *database.DB
}

// NewRepository creates a new order repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrder inserts a new order, filling in its id and timestamps.
func (r *Repository) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	err := r.db.QueryRow(ctx, database.InsertOrderSQL,
		o.CustomerID, o.CustomerName, o.CustomerPhone, o.Status, o.Type,
		o.TotalPrice, o.Items, o.DeliveryAddress, o.SpecialInstructions).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrderByID returns a single order by id.
func (r *Repository) GetOrderByID(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, database.GetOrderByIDSQL, id).Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.Status,
		&o.Type, &o.TotalPrice, &o.Items, &o.DeliveryAddress,
		&o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// ListOrders returns orders matching the filter, newest first.
func (r *Repository) ListOrders(ctx context.Context, f Filter) ([]models.Order, error) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if !f.From.IsZero() {
		add("created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at <= $%d", f.To)
	}

	sql := `
		SELECT id, customer_id, customer_name, customer_phone, status, order_type,
			total_price, items, delivery_address, special_instructions, created_at, updated_at
		FROM orders`
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	sql += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
			&o.Status, &o.Type, &o.TotalPrice, &o.Items, &o.DeliveryAddress,
			&o.SpecialInstructions, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus moves an order from one status to another. The write is
// conditional on the current status, so two concurrent transitions cannot
// both succeed; the loser gets ErrStatusConflict.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id int, from, to models.OrderStatus) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, database.UpdateOrderStatusSQL, to, id, from).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrStatusConflict
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update order status: %w", err)
	}
	return updatedAt, nil
}
