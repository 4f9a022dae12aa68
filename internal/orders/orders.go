package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
)

var (
	ErrEmptyCart     = errors.New("orders: cart is empty")
	ErrOrderNotFound = errors.New("orders: order not found")
)

// ItemNotFoundError reports a cart line whose item number did not resolve.
type ItemNotFoundError struct {
	ItemNumber string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("orders: item not found: %s", e.ItemNumber)
}

// InsufficientStockError reports a cart line asking for more than is on hand.
type InsufficientStockError struct {
	ItemNumber string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("orders: not enough stock for %s", e.ItemNumber)
}

// Store is the persistence contract for orders and the stock mutations that
// accompany them.
type Store interface {
	// ItemsForCheckout returns the referenced items keyed by item number.
	// Unknown numbers are simply absent from the map.
	ItemsForCheckout(ctx context.Context, itemNumbers []string) (map[string]items.Item, error)
	// CreateOrder applies the stock decrements and inserts the order with
	// its lines as one atomic unit. Each decrement is conditional on
	// sufficient stock; on any failure nothing is applied and the returned
	// error is an *InsufficientStockError for the offending item.
	CreateOrder(ctx context.Context, order Order, decrements []StockDecrement) (Order, error)
	GetOrderByID(ctx context.Context, id int64) (Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status Status) (Order, error)
}

type Conf struct {
	store Store
	now   func() time.Time
}

func NewConf(store Store) (*Conf, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return &Conf{store: store, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Checkout validates the whole cart against a snapshot of the catalog,
// computes totals, and commits the stock decrements together with the new
// order. Either every line succeeds or nothing changes: validation runs
// before any mutation, and the store re-checks stock conditionally inside
// its atomic commit, which also closes the race between two simultaneous
// checkouts of the same item.
func (c *Conf) Checkout(ctx context.Context, userID int64, lines []CartLine) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	numbers := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ItemNumber] {
			seen[line.ItemNumber] = true
			numbers = append(numbers, line.ItemNumber)
		}
	}

	catalog, err := c.store.ItemsForCheckout(ctx, numbers)
	if err != nil {
		return Order{}, fmt.Errorf("failed to load items for checkout: %w", err)
	}

	order, decrements, err := buildOrder(userID, lines, catalog, c.now())
	if err != nil {
		return Order{}, err
	}

	return c.store.CreateOrder(ctx, order, decrements)
}

func (c *Conf) GetOrderByID(ctx context.Context, id int64) (Order, error) {
	return c.store.GetOrderByID(ctx, id)
}

// ListOrdersByUser returns the user's orders newest-first.
func (c *Conf) ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	return c.store.ListOrdersByUser(ctx, userID)
}

// ListOrders returns every order newest-first.
func (c *Conf) ListOrders(ctx context.Context) ([]Order, error) {
	return c.store.ListOrders(ctx)
}

// SetOrderStatus moves an order to the given status. The raw value is
// normalized and checked for membership; any valid status may move to any
// other.
func (c *Conf) SetOrderStatus(ctx context.Context, id int64, rawStatus string) (Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return Order{}, err
	}
	return c.store.UpdateOrderStatus(ctx, id, status)
}
