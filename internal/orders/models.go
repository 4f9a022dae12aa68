package orders

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed set of order states. Any status may move to any other;
// there is no enforced transition graph.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusShipped    Status = "shipped"
	StatusComplete   Status = "complete"
)

var ErrInvalidStatus = errors.New("orders: invalid status")

// ParseStatus normalizes case and whitespace and validates membership.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusComplete:
		return StatusComplete, nil
	}
	return "", ErrInvalidStatus
}

// CartLine is one requested line of a checkout; carts are transient and
// never persisted.
type CartLine struct {
	ItemNumber string `json:"item_number" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// NewOrder is the checkout request payload.
type NewOrder struct {
	Lines []CartLine `json:"lines" validate:"required,dive"`
}

// LineItem is a snapshot of an item taken at checkout time. It is
// deliberately decoupled from the live catalog so historical orders stay
// accurate after the item is edited, repriced, or deleted.
type LineItem struct {
	ItemNumber string          `json:"item_number"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// Order owns its line items; financial fields are never mutated after
// creation, only the status moves.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    Status          `json:"status"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []LineItem      `json:"items"`
}

// StockDecrement is one stock mutation to apply atomically with the order
// insert. One decrement is emitted per cart line, in cart order.
type StockDecrement struct {
	ItemNumber string
	Quantity   int
}
