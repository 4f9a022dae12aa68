package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
)

const uniqueViolation = "23505"

const itemColumns = `id, item_number, name, description, qty_per_purchase, qty_in_stock, price, image_url, category, subcategory`

func (s *Store) CreateItem(ctx context.Context, item items.Item) (items.Item, error) {
	query := `
		INSERT INTO items (item_number, name, description, qty_per_purchase, qty_in_stock, price, image_url, category, subcategory)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		item.ItemNumber, item.Name, item.Description, item.QtyPerPurchase,
		item.QtyInStock, item.Price, item.ImageURL, item.Category, item.Subcategory,
	).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return items.Item{}, items.ErrDuplicateItemNumber
		}
		return items.Item{}, fmt.Errorf("failed to insert item: %w", err)
	}
	return item, nil
}

func (s *Store) GetItemByNumber(ctx context.Context, itemNumber string) (items.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_number = $1`
	return scanItem(s.db.QueryRowContext(ctx, query, itemNumber))
}

func (s *Store) ListItems(ctx context.Context) ([]items.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var out []items.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateItem(ctx context.Context, itemNumber string, upd items.UpdateItem) (items.Item, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.QtyPerPurchase != nil {
		add("qty_per_purchase", *upd.QtyPerPurchase)
	}
	if upd.QtyInStock != nil {
		add("qty_in_stock", *upd.QtyInStock)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Subcategory != nil {
		add("subcategory", *upd.Subcategory)
	}

	if len(sets) == 0 {
		return s.GetItemByNumber(ctx, itemNumber)
	}

	args = append(args, itemNumber)
	query := fmt.Sprintf(`UPDATE items SET %s WHERE item_number = $%d RETURNING `+itemColumns,
		strings.Join(sets, ", "), len(args))
	return scanItem(s.db.QueryRowContext(ctx, query, args...))
}

func (s *Store) DeleteItem(ctx context.Context, itemNumber string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE item_number = $1`, itemNumber)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (items.Item, error) {
	var item items.Item
	var imageURL, subcategory sql.NullString
	err := row.Scan(
		&item.ID, &item.ItemNumber, &item.Name, &item.Description,
		&item.QtyPerPurchase, &item.QtyInStock, &item.Price,
		&imageURL, &item.Category, &subcategory,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return items.Item{}, items.ErrItemNotFound
		}
		return items.Item{}, fmt.Errorf("failed to scan item: %w", err)
	}
	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	if subcategory.Valid {
		item.Subcategory = &subcategory.String
	}
	return item, nil
}
