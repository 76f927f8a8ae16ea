package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (customer_id, customer_name, customer_phone, status, order_type,
			total_price, items, delivery_address, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	GetOrderByIDSQL = `
		SELECT id, customer_id, customer_name, customer_phone, status, order_type,
			total_price, items, delivery_address, special_instructions, created_at, updated_at
		FROM orders WHERE id = $1`

	// The status predicate makes the read-then-write transition safe against
	// a concurrent transition on the same order: the second writer sees no
	// matching row.
	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING updated_at`
)

// Menu queries
const (
	ListMenuItemsSQL = `
		SELECT id, name, name_tagalog, price, category, aliases, created_at, updated_at
		FROM menu_items ORDER BY category, name`

	// Ranked lookup: exact name match first, then prefix, then substring or
	// alias hit, ties broken by name.
	FindMenuItemsByNameSQL = `
		SELECT id, name, name_tagalog, price, category, aliases, created_at, updated_at
		FROM menu_items
		WHERE LOWER(name) LIKE LOWER($1)
		   OR LOWER(name_tagalog) LIKE LOWER($1)
		   OR EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(aliases) alias
				WHERE LOWER(alias) LIKE LOWER($1)
		   )
		ORDER BY
			CASE
				WHEN LOWER(name) = LOWER($2) THEN 1
				WHEN LOWER(name_tagalog) = LOWER($2) THEN 1
				WHEN LOWER(name) LIKE LOWER($2) || '%' THEN 2
				WHEN LOWER(name_tagalog) LIKE LOWER($2) || '%' THEN 2
				ELSE 3
			END,
			name`

	GetMenuItemSQL = `
		SELECT id, name, name_tagalog, price, category, aliases, created_at, updated_at
		FROM menu_items WHERE id = $1`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, name_tagalog, price, category, aliases)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $1, name_tagalog = $2, price = $3, category = $4, aliases = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at`

	DeleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

// Analytics queries; $1 is the start of the reporting window.
const (
	SalesSummarySQL = `
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total_price), 0) AS total_revenue,
			COALESCE(AVG(total_price), 0) AS average_order_value,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_orders,
			COUNT(*) FILTER (WHERE status = 'voided') AS voided_orders
		FROM orders
		WHERE created_at >= $1`

	TopSellingItemsSQL = `
		SELECT
			item->>'name' AS item_name,
			SUM((item->>'quantity')::int) AS quantity_sold,
			SUM((item->>'price')::numeric * (item->>'quantity')::int) AS total_revenue
		FROM orders, jsonb_array_elements(items) AS item
		WHERE created_at >= $1 AND status = 'completed'
		GROUP BY item_name
		ORDER BY quantity_sold DESC
		LIMIT $2`

	HourlyDistributionSQL = `
		SELECT EXTRACT(HOUR FROM created_at)::int AS hour, COUNT(*) AS order_count
		FROM orders
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour`
)

// Staff queries
const (
	GetStaffByUsernameSQL = `
		SELECT id, username, password_hash FROM staff_users WHERE username = $1`

	InsertStaffUserSQL = `
		INSERT INTO staff_users (username, password_hash) VALUES ($1, $2)
		RETURNING id`
)
