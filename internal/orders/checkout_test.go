package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testCatalog() map[string]items.Item {
	return map[string]items.Item{
		"A1": {ID: 1, ItemNumber: "A1", Name: "Stapler", Price: price("10.00"), QtyInStock: 5},
		"B2": {ID: 2, ItemNumber: "B2", Name: "Tape", Price: price("2.00"), QtyInStock: 3},
		"C3": {ID: 3, ItemNumber: "C3", Name: "Notepad", Price: price("19.99"), QtyInStock: 10},
	}
}

func TestBuildOrderTotals(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lines    []CartLine
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "single line",
			lines:    []CartLine{{ItemNumber: "A1", Quantity: 2}},
			subtotal: "20.00",
			tax:      "1.65",
			total:    "21.65",
		},
		{
			name:     "tax rounds half away from zero",
			lines:    []CartLine{{ItemNumber: "B2", Quantity: 1}},
			subtotal: "2.00",
			tax:      "0.17", // 0.165 rounds up, not to even
			total:    "2.17",
		},
		{
			name:     "multiple lines accumulate unrounded",
			lines:    []CartLine{{ItemNumber: "A1", Quantity: 1}, {ItemNumber: "C3", Quantity: 2}},
			subtotal: "49.98",
			tax:      "4.12", // 49.98 * 0.0825 = 4.12335
			total:    "54.10",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order, decs, err := buildOrder(7, tc.lines, testCatalog(), now)
			if err != nil {
				t.Fatalf("buildOrder returned error: %v", err)
			}
			if !order.Subtotal.Equal(price(tc.subtotal)) {
				t.Errorf("subtotal = %s, want %s", order.Subtotal, tc.subtotal)
			}
			if !order.Tax.Equal(price(tc.tax)) {
				t.Errorf("tax = %s, want %s", order.Tax, tc.tax)
			}
			if !order.Total.Equal(price(tc.total)) {
				t.Errorf("total = %s, want %s", order.Total, tc.total)
			}
			if order.Status != StatusInProgress {
				t.Errorf("status = %s, want %s", order.Status, StatusInProgress)
			}
			if order.UserID != 7 {
				t.Errorf("user id = %d, want 7", order.UserID)
			}
			if len(decs) != len(tc.lines) {
				t.Errorf("got %d decrements, want %d", len(decs), len(tc.lines))
			}
		})
	}
}

func TestBuildOrderTotalsLaw(t *testing.T) {
	// total == round(subtotal + tax, 2) and tax == round(subtotal * rate, 2)
	// for a spread of subtotals
	now := time.Now().UTC()
	for _, p := range []string{"0.01", "0.99", "1.00", "9.99", "123.45", "9999.99"} {
		catalog := map[string]items.Item{
			"X": {ItemNumber: "X", Name: "X", Price: price(p), QtyInStock: 1},
		}
		order, _, err := buildOrder(1, []CartLine{{ItemNumber: "X", Quantity: 1}}, catalog, now)
		if err != nil {
			t.Fatalf("buildOrder(%s): %v", p, err)
		}
		wantTax := order.Subtotal.Mul(TaxRate).Round(2)
		wantTotal := order.Subtotal.Add(wantTax).Round(2)
		if !order.Tax.Equal(wantTax) {
			t.Errorf("price %s: tax = %s, want %s", p, order.Tax, wantTax)
		}
		if !order.Total.Equal(wantTotal) {
			t.Errorf("price %s: total = %s, want %s", p, order.Total, wantTotal)
		}
	}
}

func TestBuildOrderSnapshotsCurrentItemState(t *testing.T) {
	order, _, err := buildOrder(1, []CartLine{{ItemNumber: "C3", Quantity: 2}}, testCatalog(), time.Now().UTC())
	if err != nil {
		t.Fatalf("buildOrder returned error: %v", err)
	}
	line := order.Items[0]
	if line.ItemNumber != "C3" || line.Name != "Notepad" {
		t.Errorf("line snapshot = %+v, want item number C3, name Notepad", line)
	}
	if !line.UnitPrice.Equal(price("19.99")) {
		t.Errorf("unit price = %s, want 19.99", line.UnitPrice)
	}
	if !line.LineTotal.Equal(price("39.98")) {
		t.Errorf("line total = %s, want 39.98", line.LineTotal)
	}
}

func TestBuildOrderValidation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("empty cart", func(t *testing.T) {
		_, _, err := buildOrder(1, nil, testCatalog(), now)
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("err = %v, want ErrEmptyCart", err)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		lines := []CartLine{{ItemNumber: "A1", Quantity: 1}, {ItemNumber: "ZZ", Quantity: 1}}
		_, _, err := buildOrder(1, lines, testCatalog(), now)
		var notFound *ItemNotFoundError
		if !errors.As(err, &notFound) || notFound.ItemNumber != "ZZ" {
			t.Fatalf("err = %v, want ItemNotFoundError for ZZ", err)
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		lines := []CartLine{{ItemNumber: "B2", Quantity: 10}}
		_, _, err := buildOrder(1, lines, testCatalog(), now)
		var noStock *InsufficientStockError
		if !errors.As(err, &noStock) || noStock.ItemNumber != "B2" {
			t.Fatalf("err = %v, want InsufficientStockError for B2", err)
		}
	})

	t.Run("duplicate lines count against stock cumulatively", func(t *testing.T) {
		lines := []CartLine{{ItemNumber: "B2", Quantity: 2}, {ItemNumber: "B2", Quantity: 2}}
		_, _, err := buildOrder(1, lines, testCatalog(), now)
		var noStock *InsufficientStockError
		if !errors.As(err, &noStock) {
			t.Fatalf("err = %v, want InsufficientStockError (3 on hand, 4 requested)", err)
		}
	})

	t.Run("unknown item reported before later stock problem", func(t *testing.T) {
		lines := []CartLine{{ItemNumber: "ZZ", Quantity: 1}, {ItemNumber: "B2", Quantity: 99}}
		_, _, err := buildOrder(1, lines, testCatalog(), now)
		var notFound *ItemNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("err = %v, want ItemNotFoundError first", err)
		}
	})
}

// fakeStore records calls so tests can assert the checkout flow never
// mutates anything when validation fails.
type fakeStore struct {
	catalog     map[string]items.Item
	createCalls int
	lastOrder   Order
	lastDecs    []StockDecrement
	createErr   error
}

func (f *fakeStore) ItemsForCheckout(ctx context.Context, itemNumbers []string) (map[string]items.Item, error) {
	out := make(map[string]items.Item)
	for _, n := range itemNumbers {
		if it, ok := f.catalog[n]; ok {
			out[n] = it
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order Order, decrements []StockDecrement) (Order, error) {
	f.createCalls++
	if f.createErr != nil {
		return Order{}, f.createErr
	}
	order.ID = 101
	f.lastOrder = order
	f.lastDecs = decrements
	return order, nil
}

func (f *fakeStore) GetOrderByID(ctx context.Context, id int64) (Order, error) {
	return Order{}, ErrOrderNotFound
}
func (f *fakeStore) ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	return nil, nil
}
func (f *fakeStore) ListOrders(ctx context.Context) ([]Order, error) { return nil, nil }
func (f *fakeStore) UpdateOrderStatus(ctx context.Context, id int64, status Status) (Order, error) {
	return Order{}, ErrOrderNotFound
}

func TestCheckoutCommitsValidCart(t *testing.T) {
	store := &fakeStore{catalog: testCatalog()}
	conf, err := NewConf(store)
	if err != nil {
		t.Fatal(err)
	}

	order, err := conf.Checkout(context.Background(), 7, []CartLine{{ItemNumber: "A1", Quantity: 2}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.ID != 101 {
		t.Errorf("order id = %d, want 101", order.ID)
	}
	if store.createCalls != 1 {
		t.Fatalf("CreateOrder called %d times, want 1", store.createCalls)
	}
	if len(store.lastDecs) != 1 || store.lastDecs[0].ItemNumber != "A1" || store.lastDecs[0].Quantity != 2 {
		t.Errorf("decrements = %+v, want one A1 x2", store.lastDecs)
	}
}

func TestCheckoutDoesNotCommitOnValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		lines []CartLine
	}{
		{"empty cart", nil},
		{"unknown item", []CartLine{{ItemNumber: "A1", Quantity: 1}, {ItemNumber: "ZZ", Quantity: 1}}},
		{"insufficient stock", []CartLine{{ItemNumber: "A1", Quantity: 99}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{catalog: testCatalog()}
			conf, _ := NewConf(store)
			if _, err := conf.Checkout(context.Background(), 7, tc.lines); err == nil {
				t.Fatal("checkout succeeded, want error")
			}
			if store.createCalls != 0 {
				t.Errorf("CreateOrder called %d times, want 0", store.createCalls)
			}
		})
	}
}

func TestCheckoutPropagatesStoreConflict(t *testing.T) {
	// the store's conditional decrement can still lose a race after
	// validation passed; the error must surface unchanged
	store := &fakeStore{
		catalog:   testCatalog(),
		createErr: &InsufficientStockError{ItemNumber: "A1"},
	}
	conf, _ := NewConf(store)

	_, err := conf.Checkout(context.Background(), 7, []CartLine{{ItemNumber: "A1", Quantity: 2}})
	var noStock *InsufficientStockError
	if !errors.As(err, &noStock) || noStock.ItemNumber != "A1" {
		t.Fatalf("err = %v, want InsufficientStockError for A1", err)
	}
}
