package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"karinderya/internal/database"
	"karinderya/internal/models"
)

// ErrMenuItemNotFound is returned when a menu item id does not exist.
var ErrMenuItemNotFound = errors.New("menu item not found")

// Repository is the Postgres-backed menu catalog. It implements
// parser.Catalog, so the order parser resolves item phrases directly
// against the menu_items table.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new menu repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// FindByName returns menu items matching the phrase against the English
// name, the Tagalog name or an alias. Results are ranked exact match
// first, then prefix, then substring, ties broken by name.
func (r *Repository) FindByName(ctx context.Context, phrase string) ([]models.MenuItem, error) {
	pattern := "%" + phrase + "%"

	rows, err := r.db.Query(ctx, database.FindMenuItemsByNameSQL, pattern, phrase)
	if err != nil {
		return nil, fmt.Errorf("failed to search menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// List returns all menu items ordered by category and name.
func (r *Repository) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// Get returns a single menu item by id.
func (r *Repository) Get(ctx context.Context, id int) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.QueryRow(ctx, database.GetMenuItemSQL, id).Scan(
		&item.ID, &item.Name, &item.NameTagalog, &item.Price, &item.Category,
		&item.Aliases, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

// Create inserts a new menu item, filling in its id and timestamps.
func (r *Repository) Create(ctx context.Context, item *models.MenuItem) error {
	if item.Aliases == nil {
		item.Aliases = []string{}
	}
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.Name, item.NameTagalog, item.Price, item.Category, item.Aliases).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// Update rewrites an existing menu item.
func (r *Repository) Update(ctx context.Context, item *models.MenuItem) error {
	if item.Aliases == nil {
		item.Aliases = []string{}
	}
	err := r.db.QueryRow(ctx, database.UpdateMenuItemSQL,
		item.Name, item.NameTagalog, item.Price, item.Category, item.Aliases, item.ID).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

// Delete removes a menu item by id.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func scanMenuItems(rows pgx.Rows) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(&item.ID, &item.Name, &item.NameTagalog, &item.Price,
			&item.Category, &item.Aliases, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
