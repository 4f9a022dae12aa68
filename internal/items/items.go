package items

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrItemNotFound        = errors.New("items: item not found")
	ErrDuplicateItemNumber = errors.New("items: item number already exists")
	ErrNegativePrice       = errors.New("items: price must not be negative")
)

// Store is the persistence contract for the catalog. Both the postgres and
// the in-memory store implement it.
type Store interface {
	CreateItem(ctx context.Context, item Item) (Item, error)
	GetItemByNumber(ctx context.Context, itemNumber string) (Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	UpdateItem(ctx context.Context, itemNumber string, upd UpdateItem) (Item, error)
	// DeleteItem reports whether an item was removed; a missing item is not
	// an error, callers turn false into a 404.
	DeleteItem(ctx context.Context, itemNumber string) (bool, error)
}

// Conf wraps the store so handler methods call through a single struct.
type Conf struct {
	store Store
}

func NewConf(store Store) (*Conf, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return &Conf{store: store}, nil
}

// InsertItem creates a catalog entry, enforcing item number uniqueness.
func (c *Conf) InsertItem(ctx context.Context, ni NewItem) (Item, error) {
	if ni.Price.IsNegative() {
		return Item{}, ErrNegativePrice
	}
	item := Item{
		ItemNumber:     ni.ItemNumber,
		Name:           ni.Name,
		Description:    ni.Description,
		QtyPerPurchase: ni.QtyPerPurchase,
		QtyInStock:     ni.QtyInStock,
		Price:          ni.Price,
		ImageURL:       ni.ImageURL,
		Category:       ni.Category,
		Subcategory:    ni.Subcategory,
	}
	return c.store.CreateItem(ctx, item)
}

func (c *Conf) GetItemByNumber(ctx context.Context, itemNumber string) (Item, error) {
	return c.store.GetItemByNumber(ctx, itemNumber)
}

// ListItems returns the catalog newest-first.
func (c *Conf) ListItems(ctx context.Context) ([]Item, error) {
	return c.store.ListItems(ctx)
}

// UpdateItem applies only the supplied fields to an existing item.
func (c *Conf) UpdateItem(ctx context.Context, itemNumber string, upd UpdateItem) (Item, error) {
	if upd.QtyPerPurchase != nil && *upd.QtyPerPurchase < 1 {
		return Item{}, fmt.Errorf("items: qty_per_purchase must be at least 1")
	}
	if upd.QtyInStock != nil && *upd.QtyInStock < 0 {
		return Item{}, fmt.Errorf("items: qty_in_stock must not be negative")
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return Item{}, ErrNegativePrice
	}
	return c.store.UpdateItem(ctx, itemNumber, upd)
}

// UpdateItemImageURL points an existing item at a newly uploaded image.
func (c *Conf) UpdateItemImageURL(ctx context.Context, itemNumber, imageURL string) (Item, error) {
	return c.store.UpdateItem(ctx, itemNumber, UpdateItem{ImageURL: &imageURL})
}

// DeleteItem hard-removes an item. Returns false when nothing matched.
func (c *Conf) DeleteItem(ctx context.Context, itemNumber string) (bool, error) {
	return c.store.DeleteItem(ctx, itemNumber)
}
