package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
)

func (s *Store) ItemsForCheckout(ctx context.Context, itemNumbers []string) (map[string]items.Item, error) {
	if len(itemNumbers) == 0 {
		return map[string]items.Item{}, nil
	}

	placeholders := make([]string, len(itemNumbers))
	args := make([]any, len(itemNumbers))
	for i, number := range itemNumbers {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = number
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_number IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]items.Item, len(itemNumbers))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out[item.ItemNumber] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkout items: %w", err)
	}
	return out, nil
}

// CreateOrder applies the stock decrements and inserts the order with its
// lines inside one transaction. Each decrement is conditional on sufficient
// stock, so a checkout racing with another cannot drive qty_in_stock
// negative; the losing transaction rolls back with an insufficient-stock
// error and leaves no partial effects.
func (s *Store) CreateOrder(ctx context.Context, order orders.Order, decrements []orders.StockDecrement) (orders.Order, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		queryDecrement := `
			UPDATE items
			SET qty_in_stock = qty_in_stock - $2
			WHERE item_number = $1 AND qty_in_stock >= $2
		`
		for _, dec := range decrements {
			res, err := tx.ExecContext(ctx, queryDecrement, dec.ItemNumber, dec.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", dec.ItemNumber, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read rows affected: %w", err)
			}
			if n == 0 {
				return &orders.InsufficientStockError{ItemNumber: dec.ItemNumber}
			}
		}

		queryOrder := `
			INSERT INTO orders (user_id, status, subtotal, tax, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, queryOrder,
			order.UserID, order.Status, order.Subtotal, order.Tax, order.Total, order.CreatedAt,
		).Scan(&order.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		queryLine := `
			INSERT INTO order_items (order_id, item_number, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, line := range order.Items {
			_, err := tx.ExecContext(ctx, queryLine,
				order.ID, line.ItemNumber, line.Name, line.UnitPrice, line.Quantity, line.LineTotal)
			if err != nil {
				return fmt.Errorf("failed to insert order line for %s: %w", line.ItemNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return orders.Order{}, err
	}
	return order, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (orders.Order, error) {
	query := `SELECT id, user_id, status, subtotal, tax, total, created_at FROM orders WHERE id = $1`
	var order orders.Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.Subtotal, &order.Tax, &order.Total, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orders.Order{}, orders.ErrOrderNotFound
		}
		return orders.Order{}, fmt.Errorf("failed to query order: %w", err)
	}
	if err := s.attachLines(ctx, []*orders.Order{&order}); err != nil {
		return orders.Order{}, err
	}
	return order, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]orders.Order, error) {
	query := `SELECT id, user_id, status, subtotal, tax, total, created_at FROM orders WHERE user_id = $1 ORDER BY id DESC`
	return s.listOrders(ctx, query, userID)
}

func (s *Store) ListOrders(ctx context.Context) ([]orders.Order, error) {
	query := `SELECT id, user_id, status, subtotal, tax, total, created_at FROM orders ORDER BY id DESC`
	return s.listOrders(ctx, query)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status orders.Status) (orders.Order, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return orders.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return orders.Order{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return orders.Order{}, orders.ErrOrderNotFound
	}
	return s.GetOrderByID(ctx, id)
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]orders.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []orders.Order
	var refs []*orders.Order
	for rows.Next() {
		var order orders.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.Status,
			&order.Subtotal, &order.Tax, &order.Total, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	for i := range out {
		refs = append(refs, &out[i])
	}
	if err := s.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) attachLines(ctx context.Context, list []*orders.Order) error {
	if len(list) == 0 {
		return nil
	}

	placeholders := make([]string, len(list))
	args := make([]any, len(list))
	byID := make(map[int64]*orders.Order, len(list))
	for i, o := range list {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = o.ID
		byID[o.ID] = o
	}

	query := `
		SELECT order_id, item_number, name, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var line orders.LineItem
		err := rows.Scan(&orderID, &line.ItemNumber, &line.Name, &line.UnitPrice, &line.Quantity, &line.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order lines: %w", err)
	}
	return nil
}
