package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedItem(t *testing.T, s *Store, number string, stock int, p string) items.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), items.Item{
		ItemNumber: number,
		Name:       "Item " + number,
		QtyInStock: stock,
		Price:      price(p),
	})
	if err != nil {
		t.Fatalf("seed item %s: %v", number, err)
	}
	return item
}

func TestCreateItemRejectsDuplicateNumber(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")

	_, err := s.CreateItem(context.Background(), items.Item{ItemNumber: "A1", Name: "Other"})
	if !errors.Is(err, items.ErrDuplicateItemNumber) {
		t.Fatalf("err = %v, want ErrDuplicateItemNumber", err)
	}

	// the store is unchanged
	item, err := s.GetItemByNumber(context.Background(), "A1")
	if err != nil {
		t.Fatal(err)
	}
	if item.Name != "Item A1" {
		t.Errorf("item name = %q, original row was touched", item.Name)
	}
}

func TestUpdateItemAppliesOnlySuppliedFields(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")

	newName := "Renamed"
	updated, err := s.UpdateItem(context.Background(), "A1", items.UpdateItem{Name: &newName})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
	if updated.QtyInStock != 5 || !updated.Price.Equal(price("10.00")) {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	if _, err := s.UpdateItem(context.Background(), "ZZ", items.UpdateItem{Name: &newName}); !errors.Is(err, items.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestDeleteItemReturnsFalseWhenAbsent(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")

	ok, err := s.DeleteItem(context.Background(), "A1")
	if err != nil || !ok {
		t.Fatalf("delete existing: ok=%v err=%v", ok, err)
	}
	ok, err = s.DeleteItem(context.Background(), "A1")
	if err != nil || ok {
		t.Fatalf("delete absent: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 1, "1.00")
	seedItem(t, s, "B2", 1, "1.00")
	seedItem(t, s, "C3", 1, "1.00")

	list, err := s.ListItems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ItemNumber != "C3" || list[2].ItemNumber != "A1" {
		t.Errorf("listing order = %v, want C3 first", list)
	}
}

func checkoutThrough(t *testing.T, s *Store, userID int64, lines []orders.CartLine) (orders.Order, error) {
	t.Helper()
	conf, err := orders.NewConf(s)
	if err != nil {
		t.Fatal(err)
	}
	return conf.Checkout(context.Background(), userID, lines)
}

func TestCheckoutDecrementsStockAndComputesTotals(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")

	order, err := checkoutThrough(t, s, 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 2}})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !order.Subtotal.Equal(price("20.00")) || !order.Tax.Equal(price("1.65")) || !order.Total.Equal(price("21.65")) {
		t.Errorf("totals = %s/%s/%s, want 20.00/1.65/21.65", order.Subtotal, order.Tax, order.Total)
	}

	item, err := s.GetItemByNumber(context.Background(), "A1")
	if err != nil {
		t.Fatal(err)
	}
	if item.QtyInStock != 3 {
		t.Errorf("stock = %d, want 3", item.QtyInStock)
	}
}

func TestCheckoutFailureLeavesNoPartialEffects(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")
	seedItem(t, s, "B2", 3, "2.00")

	t.Run("unknown second item", func(t *testing.T) {
		_, err := checkoutThrough(t, s, 7, []orders.CartLine{
			{ItemNumber: "A1", Quantity: 2},
			{ItemNumber: "ZZ", Quantity: 1},
		})
		var notFound *orders.ItemNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("err = %v, want ItemNotFoundError", err)
		}
	})

	t.Run("insufficient stock on second item", func(t *testing.T) {
		_, err := checkoutThrough(t, s, 7, []orders.CartLine{
			{ItemNumber: "A1", Quantity: 2},
			{ItemNumber: "B2", Quantity: 10},
		})
		var noStock *orders.InsufficientStockError
		if !errors.As(err, &noStock) || noStock.ItemNumber != "B2" {
			t.Fatalf("err = %v, want InsufficientStockError for B2", err)
		}
	})

	// neither failed checkout moved any stock or created an order
	a1, _ := s.GetItemByNumber(context.Background(), "A1")
	b2, _ := s.GetItemByNumber(context.Background(), "B2")
	if a1.QtyInStock != 5 || b2.QtyInStock != 3 {
		t.Errorf("stock after failed checkouts = %d/%d, want 5/3", a1.QtyInStock, b2.QtyInStock)
	}
	list, _ := s.ListOrders(context.Background())
	if len(list) != 0 {
		t.Errorf("%d orders created by failed checkouts, want 0", len(list))
	}
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 10, "10.00")
	conf, err := orders.NewConf(s)
	if err != nil {
		t.Fatal(err)
	}

	const attempts = 25
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := conf.Checkout(context.Background(), 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var noStock *orders.InsufficientStockError
		if !errors.As(err, &noStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 10 {
		t.Errorf("%d checkouts succeeded, want exactly 10", succeeded)
	}

	item, _ := s.GetItemByNumber(context.Background(), "A1")
	if item.QtyInStock != 0 {
		t.Errorf("final stock = %d, want 0", item.QtyInStock)
	}
	if item.QtyInStock < 0 {
		t.Error("stock went negative")
	}
}

func TestOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "10.00")

	order, err := checkoutThrough(t, s, 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}})
	if err != nil {
		t.Fatal(err)
	}

	newName := "Totally Different"
	newPrice := price("99.99")
	if _, err := s.UpdateItem(context.Background(), "A1", items.UpdateItem{Name: &newName, Price: &newPrice}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetOrderByID(context.Background(), order.ID)
	if err != nil {
		t.Fatal(err)
	}
	line := got.Items[0]
	if line.Name != "Item A1" || !line.UnitPrice.Equal(price("10.00")) {
		t.Errorf("order line changed after catalog edit: %+v", line)
	}

	// deleting the item does not touch the order either
	if _, err := s.DeleteItem(context.Background(), "A1"); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetOrderByID(context.Background(), order.ID)
	if err != nil || len(got.Items) != 1 {
		t.Errorf("order lost its lines after item delete: %v, %v", got, err)
	}
}

func TestOrderListingsNewestFirst(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 100, "1.00")

	first, err := checkoutThrough(t, s, 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := checkoutThrough(t, s, 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := checkoutThrough(t, s, 8, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}

	mine, err := s.ListOrdersByUser(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Errorf("user listing = %+v, want newest first for user 7", mine)
	}

	all, err := s.ListOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].UserID != 8 {
		t.Errorf("full listing = %+v, want 3 orders newest first", all)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	s := NewStore()
	seedItem(t, s, "A1", 5, "1.00")
	conf, err := orders.NewConf(s)
	if err != nil {
		t.Fatal(err)
	}

	order, err := conf.Checkout(context.Background(), 7, []orders.CartLine{{ItemNumber: "A1", Quantity: 1}})
	if err != nil {
		t.Fatal(err)
	}

	// any status can move to any other, including backwards
	for _, status := range []string{"shipped", "complete", "in_progress", " SHIPPED "} {
		updated, err := conf.SetOrderStatus(context.Background(), order.ID, status)
		if err != nil {
			t.Fatalf("SetOrderStatus(%q): %v", status, err)
		}
		want, _ := orders.ParseStatus(status)
		if updated.Status != want {
			t.Errorf("status = %s, want %s", updated.Status, want)
		}
	}

	if _, err := conf.SetOrderStatus(context.Background(), order.ID, "cancelled"); !errors.Is(err, orders.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := conf.SetOrderStatus(context.Background(), 9999, "shipped"); !errors.Is(err, orders.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}

	// financial fields untouched by status churn
	got, _ := s.GetOrderByID(context.Background(), order.ID)
	if !got.Total.Equal(order.Total) || !got.Subtotal.Equal(order.Subtotal) {
		t.Error("status updates changed financial fields")
	}
}
