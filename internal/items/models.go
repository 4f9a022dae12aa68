package items

import "github.com/shopspring/decimal"

// Item is a catalog entry. ItemNumber is the business-facing unique key,
// distinct from the internal serial id, and is immutable after creation.
type Item struct {
	ID             int64           `json:"id"`
	ItemNumber     string          `json:"item_number"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	QtyPerPurchase int             `json:"qty_per_purchase"`
	QtyInStock     int             `json:"qty_in_stock"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url,omitempty"`
	Category       string          `json:"category"`
	Subcategory    *string         `json:"subcategory,omitempty"`
}

// NewItem is the payload for creating a catalog entry.
type NewItem struct {
	ItemNumber     string          `json:"item_number" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	QtyPerPurchase int             `json:"qty_per_purchase" validate:"required,min=1"`
	QtyInStock     int             `json:"qty_in_stock" validate:"min=0"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url"`
	Category       string          `json:"category" validate:"required"`
	Subcategory    *string         `json:"subcategory"`
}

// UpdateItem carries a partial update; only non-nil fields are applied.
// The item number itself cannot be changed.
type UpdateItem struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	QtyPerPurchase *int             `json:"qty_per_purchase"`
	QtyInStock     *int             `json:"qty_in_stock"`
	Price          *decimal.Decimal `json:"price"`
	ImageURL       *string          `json:"image_url"`
	Category       *string          `json:"category"`
	Subcategory    *string          `json:"subcategory"`
}
