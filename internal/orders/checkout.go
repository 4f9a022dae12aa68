package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
)

// TaxRate is applied to the unrounded subtotal of every order.
var TaxRate = decimal.NewFromFloat(0.0825)

// buildOrder validates the cart against a consistent snapshot of the catalog
// and computes the full order. It is pure: all item state comes in through
// the catalog argument and nothing outside the return values is mutated.
//
// Validation fails fast in cart order: unknown item number first, then
// insufficient stock. Stock checks are cumulative, so two lines for the same
// item cannot together exceed what is on hand.
func buildOrder(userID int64, lines []CartLine, catalog map[string]items.Item, now time.Time) (Order, []StockDecrement, error) {
	if len(lines) == 0 {
		return Order{}, nil, ErrEmptyCart
	}

	remaining := make(map[string]int, len(catalog))
	for number, it := range catalog {
		remaining[number] = it.QtyInStock
	}

	subtotal := decimal.Zero
	lineItems := make([]LineItem, 0, len(lines))
	decrements := make([]StockDecrement, 0, len(lines))

	for _, line := range lines {
		it, ok := catalog[line.ItemNumber]
		if !ok {
			return Order{}, nil, &ItemNotFoundError{ItemNumber: line.ItemNumber}
		}
		if remaining[line.ItemNumber] < line.Quantity {
			return Order{}, nil, &InsufficientStockError{ItemNumber: line.ItemNumber}
		}
		remaining[line.ItemNumber] -= line.Quantity

		// Price comes from the catalog, never from the caller.
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		lineItems = append(lineItems, LineItem{
			ItemNumber: it.ItemNumber,
			Name:       it.Name,
			UnitPrice:  it.Price,
			Quantity:   line.Quantity,
			LineTotal:  lineTotal,
		})
		decrements = append(decrements, StockDecrement{
			ItemNumber: line.ItemNumber,
			Quantity:   line.Quantity,
		})
	}

	// Subtotal accumulates unrounded; tax and total round half away from
	// zero to two decimal places.
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	order := Order{
		UserID:    userID,
		Status:    StatusInProgress,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		CreatedAt: now,
		Items:     lineItems,
	}
	return order, decrements, nil
}
