// Package memory is a mutex-guarded in-memory implementation of the domain
// stores, used for tests and for running the API without Postgres. It mirrors
// the transactional behavior of the postgres store: CreateOrder applies the
// stock decrements and the order insert all-or-nothing under one lock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
)

type Store struct {
	mu sync.Mutex

	items       map[string]items.Item // keyed by item number
	nextItemID  int64
	orderList   []orders.Order // append order == id order
	nextOrderID int64
	userList    []users.User
	nextUserID  int64

	nowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{
		items:   make(map[string]items.Item),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// ---- items.Store ----

func (s *Store) CreateItem(ctx context.Context, item items.Item) (items.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ItemNumber]; exists {
		return items.Item{}, items.ErrDuplicateItemNumber
	}
	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ItemNumber] = item
	return item, nil
}

func (s *Store) GetItemByNumber(ctx context.Context, itemNumber string) (items.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemNumber]
	if !ok {
		return items.Item{}, items.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]items.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]items.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateItem(ctx context.Context, itemNumber string, upd items.UpdateItem) (items.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemNumber]
	if !ok {
		return items.Item{}, items.ErrItemNotFound
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.QtyPerPurchase != nil {
		item.QtyPerPurchase = *upd.QtyPerPurchase
	}
	if upd.QtyInStock != nil {
		item.QtyInStock = *upd.QtyInStock
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.ImageURL != nil {
		url := *upd.ImageURL
		item.ImageURL = &url
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Subcategory != nil {
		sub := *upd.Subcategory
		item.Subcategory = &sub
	}
	s.items[itemNumber] = item
	return item, nil
}

func (s *Store) DeleteItem(ctx context.Context, itemNumber string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemNumber]; !ok {
		return false, nil
	}
	delete(s.items, itemNumber)
	return true, nil
}

// ---- orders.Store ----

func (s *Store) ItemsForCheckout(ctx context.Context, itemNumbers []string) (map[string]items.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]items.Item, len(itemNumbers))
	for _, number := range itemNumbers {
		if item, ok := s.items[number]; ok {
			out[number] = item
		}
	}
	return out, nil
}

func (s *Store) CreateOrder(ctx context.Context, order orders.Order, decrements []orders.StockDecrement) (orders.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check every decrement against live stock before touching anything,
	// the same guarantee the conditional UPDATE gives the postgres store.
	staged := make(map[string]items.Item, len(decrements))
	for _, dec := range decrements {
		item, ok := staged[dec.ItemNumber]
		if !ok {
			item, ok = s.items[dec.ItemNumber]
			if !ok {
				return orders.Order{}, &orders.InsufficientStockError{ItemNumber: dec.ItemNumber}
			}
		}
		if item.QtyInStock < dec.Quantity {
			return orders.Order{}, &orders.InsufficientStockError{ItemNumber: dec.ItemNumber}
		}
		item.QtyInStock -= dec.Quantity
		staged[dec.ItemNumber] = item
	}
	for number, item := range staged {
		s.items[number] = item
	}

	s.nextOrderID++
	order.ID = s.nextOrderID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.nowFunc()
	}
	order.Items = append([]orders.LineItem(nil), order.Items...)
	s.orderList = append(s.orderList, order)
	return cloneOrder(order), nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (orders.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orderList {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return orders.Order{}, orders.ErrOrderNotFound
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]orders.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.Order
	for i := len(s.orderList) - 1; i >= 0; i-- {
		if s.orderList[i].UserID == userID {
			out = append(out, cloneOrder(s.orderList[i]))
		}
	}
	return out, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]orders.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]orders.Order, 0, len(s.orderList))
	for i := len(s.orderList) - 1; i >= 0; i-- {
		out = append(out, cloneOrder(s.orderList[i]))
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status orders.Status) (orders.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orderList {
		if s.orderList[i].ID == id {
			s.orderList[i].Status = status
			return cloneOrder(s.orderList[i]), nil
		}
	}
	return orders.Order{}, orders.ErrOrderNotFound
}

func cloneOrder(o orders.Order) orders.Order {
	clone := o
	clone.Items = append([]orders.LineItem(nil), o.Items...)
	return clone
}

// ---- users.Store ----

func (s *Store) CreateUser(ctx context.Context, user users.User) (users.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.userList {
		if u.Email == user.Email {
			return users.User{}, users.ErrEmailExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.userList = append(s.userList, user)
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (users.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.userList {
		if u.Email == email {
			if u.IsDeleted && !includeDeleted {
				return users.User{}, users.ErrUserNotFound
			}
			return u, nil
		}
	}
	return users.User{}, users.ErrUserNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (users.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.userList {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, users.ErrUserNotFound
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int, includeDeleted bool) ([]users.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []users.User
	for _, u := range s.userList {
		if u.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, u)
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id int64) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.userList {
		if s.userList[i].ID == id && !s.userList[i].IsDeleted {
			now := s.nowFunc()
			s.userList[i].IsDeleted = true
			s.userList[i].DeletedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SetUserRole(ctx context.Context, email string, role auth.Role) (users.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.userList {
		if s.userList[i].Email == email {
			s.userList[i].Role = role
			return s.userList[i], nil
		}
	}
	return users.User{}, users.ErrUserNotFound
}
