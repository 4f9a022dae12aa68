package kafka

import "time"

// Topics the inventory backend produces to.
const (
	TopicAccountCreated     = `users.account-created`
	TopicOrderPlaced        = `orders.order-placed`
	TopicOrderStatusChanged = `orders.status-changed`
)

type AccountCreatedEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderPlacedEvent struct {
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Total     string    `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
